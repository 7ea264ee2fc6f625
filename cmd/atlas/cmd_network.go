package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/3GHCRE/atlas-sub000/client"
)

func newTraverseCmd() *cobra.Command {
	var (
		depth     int
		direction string
	)
	cmd := &cobra.Command{
		Use:   "traverse <type> <id>",
		Short: "Traverse the ownership network from a node",
		Long: "Traverse the ownership network from a property, entity, company or principal.\n" +
			"Direction up walks toward owners, down toward properties.",
		Example: "  atlas traverse company 42 --depth 2 --direction down",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNodeID(args[1])
			if err != nil {
				return err
			}
			result, err := apiClient.Network.Traverse(cmd.Context(), client.TraverseRequest{
				StartType: args[0],
				StartID:   id,
				MaxDepth:  depth,
				Direction: direction,
			})
			if err != nil {
				return fmt.Errorf("traverse: %w", err)
			}
			if flagFmt == "table" {
				printTraverseTable(cmd.OutOrStdout(), result)
				return nil
			}
			return formatJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "Max traversal depth, 1-5 (server default 3)")
	cmd.Flags().StringVar(&direction, "direction", "", "Direction: up|down|both (server default both)")
	return cmd
}

func newNodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "node <type> <id>",
		Short: "Show the display record of a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNodeID(args[1])
			if err != nil {
				return err
			}
			rec, err := apiClient.Network.Node(cmd.Context(), args[0], id)
			if err != nil {
				return fmt.Errorf("node: %w", err)
			}
			if flagFmt == "table" {
				formatTable(cmd.OutOrStdout(),
					[]string{"ID", "TYPE", "NAME", "SUBTYPE"},
					[][]string{{rec.ID, rec.Type, rec.Name, rec.Subtype}})
				return nil
			}
			return formatJSON(cmd.OutOrStdout(), rec)
		},
	}
}

func parseNodeID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", s)
	}
	return id, nil
}

func printTraverseTable(w io.Writer, r *client.TraverseResult) {
	nodes := make([][]string, 0, len(r.Graph.Nodes))
	for _, n := range r.Graph.Nodes {
		nodes = append(nodes, []string{n.ID, n.Type, n.Name, n.Subtype, strconv.Itoa(n.Depth)})
	}
	formatTable(w, []string{"ID", "TYPE", "NAME", "SUBTYPE", "DEPTH"}, nodes)
	fmt.Fprintln(w)

	edges := make([][]string, 0, len(r.Graph.Edges))
	for _, e := range r.Graph.Edges {
		conf := ""
		if e.Confidence != nil {
			conf = strconv.FormatFloat(*e.Confidence, 'f', 2, 64)
		}
		edges = append(edges, []string{e.Source, e.Target, e.Relationship, conf})
	}
	formatTable(w, []string{"SOURCE", "TARGET", "RELATIONSHIP", "CONFIDENCE"}, edges)
	fmt.Fprintln(w)

	s := r.Statistics
	fmt.Fprintf(w, "%d nodes (%d property, %d entity, %d company, %d principal), %d edges, max depth %d\n",
		s.TotalNodes, s.NodesByType.Property, s.NodesByType.Entity, s.NodesByType.Company, s.NodesByType.Principal,
		s.TotalEdges, s.MaxDepthReached)
	if r.Truncated {
		fmt.Fprintln(w, "result truncated: limits reached before the traversal completed")
	}
}
