package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-modelviewer/internal/catalog"
)

func modelsCmd(s *settings) *cobra.Command {
	var inspect bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models the viewer can show",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := catalog.Scan(s.modelsDir)
			if err != nil {
				return err
			}
			if inspect {
				for i := range entries {
					entries[i].Inspect()
				}
			}
			return printModels(cmd.OutOrStdout(), entries, inspect)
		},
	}
	cmd.Flags().BoolVar(&inspect, "inspect", false, "parse each scene file")
	return cmd
}

func printModels(out io.Writer, entries []catalog.Entry, inspected bool) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if inspected {
		fmt.Fprintln(tw, "MODEL\tFORMAT\tSCALE\tVERTICES\tANIMATIONS\tURL")
	} else {
		fmt.Fprintln(tw, "MODEL\tFORMAT\tSCALE\tURL")
	}
	for _, e := range entries {
		scale := fmt.Sprintf("%g", e.Scale)
		if !e.Known {
			scale += " (default)"
		}
		if !inspected {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Format, scale, e.URL)
			continue
		}
		if e.Info == nil {
			fmt.Fprintf(tw, "%s\t%s\t%s\terror: %s\t\t%s\n", e.Name, e.Format, scale, e.Error, e.URL)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", e.Name, e.Format, scale, e.Info.Vertices, e.Info.Animations, e.URL)
	}
	return tw.Flush()
}

func infoCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "info <model>",
		Short: "Display scene file statistics for one model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := catalog.Find(s.modelsDir, args[0])
			if err != nil {
				return err
			}
			e.Inspect()
			return printInfo(cmd.OutOrStdout(), e)
		},
	}
}

func printInfo(out io.Writer, e catalog.Entry) error {
	st, err := os.Stat(e.Path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	fmt.Fprintf(out, "Model:      %s\n", e.Name)
	fmt.Fprintf(out, "File:       %s\n", e.Path)
	fmt.Fprintf(out, "Format:     %s\n", e.Format)
	fmt.Fprintf(out, "Size:       %.2f KB\n", float64(st.Size())/1024)
	fmt.Fprintf(out, "Scale:      %g\n", e.Scale)
	if e.Info == nil {
		return errors.New(e.Error)
	}
	i := e.Info
	size := i.Size()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Generator:  %s\n", i.Generator)
	fmt.Fprintf(out, "Version:    %s\n", i.Version)
	fmt.Fprintf(out, "Scenes:     %d\n", i.Scenes)
	fmt.Fprintf(out, "Nodes:      %d\n", i.Nodes)
	fmt.Fprintf(out, "Meshes:     %d\n", i.Meshes)
	fmt.Fprintf(out, "Materials:  %d\n", i.Materials)
	fmt.Fprintf(out, "Animations: %d\n", i.Animations)
	fmt.Fprintf(out, "Vertices:   %d\n", i.Vertices)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Bounds Min: (%.3f, %.3f, %.3f)\n", i.Min[0], i.Min[1], i.Min[2])
	fmt.Fprintf(out, "Bounds Max: (%.3f, %.3f, %.3f)\n", i.Max[0], i.Max[1], i.Max[2])
	fmt.Fprintf(out, "Dimensions: %.3f x %.3f x %.3f\n", size[0], size[1], size[2])
	fmt.Fprintf(out, "Page:       %s\n", e.URL)
	return nil
}
