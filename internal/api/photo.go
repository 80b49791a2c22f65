// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// maxPhotoBytes caps the raw file size accepted for a progress photo.
// The backend stores photos inline in the complaint document, so large
// uploads would bloat every subsequent detail fetch.
const maxPhotoBytes = 10 << 20

// EncodePhotoFile reads an image file and returns its base64 encoding,
// ready for the progress-photo endpoint.
//
// # Description
//
// The file content is sniffed to make sure it is actually an image; the
// file extension is not trusted. Files over 10 MiB are rejected.
//
// # Inputs
//
//   - path: filesystem path to a JPEG, PNG, GIF, or WebP file.
//
// # Outputs
//
//   - string: standard base64 encoding of the raw bytes.
//   - error: *Error with KindValidation on anything wrong with the file.
func EncodePhotoFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &Error{
			Kind:        KindValidation,
			Message:     fmt.Sprintf("Cannot read photo %q", path),
			Detail:      err.Error(),
			Remediation: "Check that the file exists and is readable",
		}
	}
	if info.Size() > maxPhotoBytes {
		return "", &Error{
			Kind:        KindValidation,
			Message:     fmt.Sprintf("Photo %q is too large (%d bytes)", path, info.Size()),
			Remediation: fmt.Sprintf("Resize the image below %d MiB", maxPhotoBytes>>20),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("Cannot read photo %q", path),
			Detail:  err.Error(),
		}
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", &Error{
			Kind:        KindValidation,
			Message:     fmt.Sprintf("%q is not an image (detected %s)", path, contentType),
			Remediation: "Provide a JPEG, PNG, GIF, or WebP file",
		}
	}

	return base64.StdEncoding.EncodeToString(data), nil
}
