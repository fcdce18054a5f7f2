package browser

import (
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/akhatua2/designx/dom"
)

// Screenshot captures a PNG of the page clipped to the given viewport
// rectangle. The overlay should normally be hidden by the caller first so
// the capture shows the page, not the spotlight.
func (s *Session) Screenshot(r dom.Rect) ([]byte, error) {
	req := proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	}
	if !r.Empty() {
		req.Clip = &proto.PageViewport{
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
			Scale:  1,
		}
	}
	res, err := req.Call(s.Page)
	if err != nil {
		return nil, fmt.Errorf("browser: capture screenshot: %w", err)
	}
	return res.Data, nil
}
