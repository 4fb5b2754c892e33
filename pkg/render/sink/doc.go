// Package sink encodes rendered maps and writes them to disk.
//
// [RenderPNG] encodes an image to PNG bytes. [WriteFile] stores bytes at a
// path atomically: the data goes to a temporary file in the target
// directory which is then renamed over the destination, so a failed run
// never leaves a truncated image behind.
//
//	data, err := sink.RenderPNG(img, sink.WithCompression(png.BestCompression))
//	if err != nil {
//	    return err
//	}
//	return sink.WriteFile("santa_traditions_map.png", data)
package sink
