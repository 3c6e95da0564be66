package threejs

import (
	"context"

	"github.com/gopherjs/gopherjs/js"
	"honnef.co/go/js/dom"

	"github.com/coreman2200/funtimes-modelviewer/internal/viewer"
)

// Window is the browser window hosting the viewer.
type Window struct{ w dom.Window }

func NewWindow() *Window { return &Window{w: dom.GetWindow()} }

func (w *Window) Size() (int, int) { return w.w.InnerWidth(), w.w.InnerHeight() }

func (w *Window) PixelRatio() float64 {
	r := js.Global.Get("devicePixelRatio")
	if r == js.Undefined {
		return 1
	}
	return r.Float()
}

func (w *Window) Href() string { return js.Global.Get("location").Get("href").String() }

// Events feeds animation-frame timestamps and resize notifications to the
// viewer loop until ctx is done. A frame the loop has not picked up yet is
// dropped rather than queued.
func (w *Window) Events(ctx context.Context) viewer.Events {
	frames := make(chan float64, 1)
	resizes := make(chan struct{}, 1)

	var raf func(t float64)
	raf = func(t float64) {
		if ctx.Err() != nil {
			return
		}
		select {
		case frames <- t:
		default:
		}
		js.Global.Call("requestAnimationFrame", raf)
	}
	js.Global.Call("requestAnimationFrame", raf)

	onResize := w.w.AddEventListener("resize", false, func(dom.Event) {
		select {
		case resizes <- struct{}{}:
		default:
		}
	})
	go func() {
		<-ctx.Done()
		w.w.RemoveEventListener("resize", false, onResize)
	}()
	return viewer.Events{Frames: frames, Resizes: resizes}
}
