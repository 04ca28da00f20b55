package game

import "fmt"

// Assets builds the URLs of the sprite frames and still images.
type Assets struct {
	StaticURL string
}

const (
	imageStatic = "valera.png"
	imageCave   = "peshhera.png"
	imageGrill  = "reshetka.png"
	imageBox    = "box.png"
)

// Frame returns the URL of frame n of an animation.
func (a Assets) Frame(kind AnimationKind, n int) string {
	return fmt.Sprintf("%sanimation/%s/%d.png", a.StaticURL, kind.folder(), n)
}

// Static is the resting pose of the mascot.
func (a Assets) Static() string { return a.StaticURL + imageStatic }

// Box is the image shown on every lottery cell.
func (a Assets) Box() string { return a.StaticURL + imageBox }

// Manifest lists every image a page should preload.
func (a Assets) Manifest(totalFrames int) []string {
	kinds := []AnimationKind{AnimationIdle, AnimationEvil, AnimationRun}
	urls := make([]string, 0, len(kinds)*totalFrames+4)
	for _, k := range kinds {
		for n := 1; n <= totalFrames; n++ {
			urls = append(urls, a.Frame(k, n))
		}
	}
	for _, img := range []string{imageCave, imageStatic, imageGrill, imageBox} {
		urls = append(urls, a.StaticURL+img)
	}
	return urls
}
