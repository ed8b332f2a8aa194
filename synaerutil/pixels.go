/*
Copyright © 2024 the SYNAER authors.
This file is part of SYNAER.

SYNAER is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SYNAER is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SYNAER.  If not, see <http://www.gnu.org/licenses/>.
*/

package synaerutil

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spatialmodel/synaer"
	"github.com/vmihailenco/msgpack/v5"
)

// ReadPixels reads a stream of msgpack-encoded pixels from r until the
// end of the stream.
func ReadPixels(r io.Reader) ([]synaer.Pixel, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	var pixels []synaer.Pixel
	for {
		var p synaer.Pixel
		if err := dec.Decode(&p); err != nil {
			if err == io.EOF {
				return pixels, nil
			}
			return nil, fmt.Errorf("synaer: reading pixel %d: %v", len(pixels), err)
		}
		pixels = append(pixels, p)
	}
}

// WritePixels writes pixels to w as a stream of msgpack records.
func WritePixels(w io.Writer, pixels []synaer.Pixel) error {
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)
	for i := range pixels {
		if err := enc.Encode(&pixels[i]); err != nil {
			return fmt.Errorf("synaer: writing pixel %d: %v", i, err)
		}
	}
	return bw.Flush()
}

// ReadResults reads a stream of msgpack-encoded results from r until the
// end of the stream.
func ReadResults(r io.Reader) ([]synaer.Result, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	var results []synaer.Result
	for {
		var res synaer.Result
		if err := dec.Decode(&res); err != nil {
			if err == io.EOF {
				return results, nil
			}
			return nil, fmt.Errorf("synaer: reading result %d: %v", len(results), err)
		}
		results = append(results, res)
	}
}

// WriteResults writes results to w as a stream of msgpack records.
func WriteResults(w io.Writer, results []synaer.Result) error {
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)
	for i := range results {
		if err := enc.Encode(&results[i]); err != nil {
			return fmt.Errorf("synaer: writing result %d: %v", i, err)
		}
	}
	return bw.Flush()
}

// ReadPixelsFile reads the pixel stream in the file at path.
func ReadPixelsFile(path string) ([]synaer.Pixel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("synaer: opening pixel file: %v", err)
	}
	defer f.Close()
	return ReadPixels(f)
}

// WriteResultsFile writes results to a new file at path.
func WriteResultsFile(path string, results []synaer.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("synaer: creating result file: %v", err)
	}
	if err := WriteResults(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
