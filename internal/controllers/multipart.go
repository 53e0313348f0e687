package controllers

import (
	"fmt"
	"io"
	"mime/multipart"

	"antiscam/internal/pkg/storage"
)

// formFiles collects the files posted under any of the given field names.
func formFiles(form *multipart.Form, fields ...string) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	var out []*multipart.FileHeader
	for _, f := range fields {
		out = append(out, form.File[f]...)
	}
	return out
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func readAssets(files []*multipart.FileHeader, kind storage.Kind) ([]storage.Asset, error) {
	assets := make([]storage.Asset, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		assets = append(assets, storage.Asset{
			Data:        data,
			ContentType: fh.Header.Get("Content-Type"),
			Kind:        kind,
		})
	}
	return assets, nil
}
