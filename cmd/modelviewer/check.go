package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-modelviewer/internal/catalog"
	"github.com/coreman2200/funtimes-modelviewer/internal/headless"
	"github.com/coreman2200/funtimes-modelviewer/internal/viewer"
)

type checkOpts struct {
	frames  int
	fps     int
	timeout time.Duration
	animate bool
}

func checkCmd(s *settings) *cobra.Command {
	o := checkOpts{}
	cmd := &cobra.Command{
		Use:   "check <model>",
		Short: "Run the viewer headless and report how the model ends up in the scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := viewer.Selection{Model: args[0], Present: true, Format: s.format, Animate: o.animate}
			if e, err := catalog.Find(s.modelsDir, args[0]); err == nil {
				sel.Format = e.Format
			}
			return check(cmd.Context(), cmd.OutOrStdout(), s.modelsDir, sel, o)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.frames, "frames", 30, "frames to run after the model is in")
	f.IntVar(&o.fps, "fps", 60, "frame rate")
	f.DurationVar(&o.timeout, "timeout", 10*time.Second, "give up waiting for the load after this")
	f.BoolVar(&o.animate, "animate", true, "advance animation clips")
	return cmd
}

func check(ctx context.Context, out io.Writer, dir string, sel viewer.Selection, o checkOpts) error {
	b := headless.New()
	opts := viewer.DefaultOptions()
	opts.ModelsDir = dir
	opts.Log = log.Logger
	v, err := viewer.New(b, headless.Window{Width: 1920, Height: 1080, Ratio: 1}, opts)
	if err != nil {
		return err
	}
	v.Resize()
	if err := v.Load(ctx, sel); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if err := v.AwaitModel(waitCtx); err != nil {
		return fmt.Errorf("waiting for %s: %w", sel.Path(dir), err)
	}
	m := v.Model()
	if m == nil {
		return errors.New("model did not load; see log")
	}

	if err := v.Run(ctx, viewer.Events{Frames: headless.Frames(ctx, o.fps, o.frames)}); err != nil {
		return err
	}

	node, ok := m.Root.(*headless.Node)
	if !ok {
		return errors.New("unexpected scene node")
	}
	return printCheck(out, sel, node, v, b)
}

func printCheck(out io.Writer, sel viewer.Selection, n *headless.Node, v *viewer.Viewer, b *headless.Backend) error {
	min, max := n.Bounds()
	fmt.Fprintf(out, "Model:      %s\n", n.Name)
	fmt.Fprintf(out, "Scale:      %g\n", n.Scale[0])
	if n.Info != nil {
		fmt.Fprintf(out, "Raw Min:    (%.3f, %.3f, %.3f)\n", n.Info.Min[0], n.Info.Min[1], n.Info.Min[2])
		fmt.Fprintf(out, "Raw Max:    (%.3f, %.3f, %.3f)\n", n.Info.Max[0], n.Info.Max[1], n.Info.Max[2])
	}
	fmt.Fprintf(out, "Scaled Min: (%.3f, %.3f, %.3f)\n", min[0], min[1], min[2])
	fmt.Fprintf(out, "Scaled Max: (%.3f, %.3f, %.3f)\n", max[0], max[1], max[2])
	fmt.Fprintf(out, "Frames:     %d (%.3f s animated, %d mixers)\n", v.Last.Frames, v.Last.ElapsedS, v.Mixers())
	fmt.Fprintf(out, "Renders:    %d\n", b.Surface.Renders)
	if sel.Animate && v.Mixers() == 0 {
		fmt.Fprintln(out, "Animations: none")
	}
	return nil
}
