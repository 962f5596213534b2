// Package watermark composites a single text or logo watermark over a base
// image.
//
// Rendering is a pure function of the base image, a RenderParams value and an
// optional Logo: the output always has the base image's own resolution, the
// base is never modified, and nothing carries over from one render to the next.
// Text size and logo width are relative to the base width, so a watermark keeps
// its proportions on a 1000px and a 4000px image alike.
package watermark
