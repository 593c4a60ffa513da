// Copyright 2026 Genome View Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package source opens configured assembly data paths.  Plain paths are
// read from the local filesystem; paths of the form gs://bucket/object
// are read from Google Cloud Storage with ranged reads.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/genomeview/assembly/genomics"
)

const gsScheme = "gs://"

// Storage implements genomics.Opener over local files and GCS objects.
// Must be created with one of the New functions.  The GCS client is
// created lazily on the first gs:// open and reused afterwards.
type Storage struct {
	options []option.ClientOption

	initializeClient sync.Once
	client           *storage.Client
	clientErr        error
}

// NewPublic returns a Storage whose GCS reads use no client
// authorization.  It can only read publicly readable objects.
func NewPublic() *Storage {
	return &Storage{options: []option.ClientOption{option.WithHTTPClient(http.DefaultClient)}}
}

// NewDefault returns a Storage whose GCS reads use the application
// default credentials.
func NewDefault() *Storage {
	return &Storage{}
}

// NewWithToken returns a Storage whose GCS reads are authorized with
// the provided OAuth2 bearer token.
func NewWithToken(token string) *Storage {
	source := oauth2.StaticTokenSource(&oauth2.Token{TokenType: "Bearer", AccessToken: token})
	return &Storage{options: []option.ClientOption{option.WithTokenSource(source)}}
}

// Open implements genomics.Opener.
func (s *Storage) Open(ctx context.Context, path string) (genomics.ReaderAtCloser, int64, error) {
	if !strings.HasPrefix(path, gsScheme) {
		return genomics.FileOpener{}.Open(ctx, path)
	}

	bucket, object, err := parseObjectPath(path)
	if err != nil {
		return nil, 0, err
	}

	s.initializeClient.Do(func() {
		s.client, s.clientErr = storage.NewClient(ctx, s.options...)
	})
	if s.clientErr != nil {
		return nil, 0, fmt.Errorf("creating storage client: %v", s.clientErr)
	}

	handle := s.client.Bucket(bucket).Object(object)
	attrs, err := handle.Attrs(ctx)
	if err != nil {
		return nil, 0, describeStorageError("reading object attributes", err)
	}
	return &objectReaderAt{ctx: ctx, object: handle}, attrs.Size, nil
}

// parseObjectPath splits a gs://bucket/object path.
func parseObjectPath(path string) (string, string, error) {
	if parts := strings.SplitN(path[len(gsScheme):], "/", 2); len(parts) == 2 {
		if parts[0] != "" && parts[1] != "" {
			return parts[0], parts[1], nil
		}
	}
	return "", "", fmt.Errorf("invalid object path %q", path)
}

// objectReaderAt adapts an object handle to io.ReaderAt using ranged
// reads.  The context captured at open time bounds all reads.
type objectReaderAt struct {
	ctx    context.Context
	object *storage.ObjectHandle
}

func (r *objectReaderAt) ReadAt(p []byte, offset int64) (int, error) {
	reader, err := r.object.NewRangeReader(r.ctx, offset, int64(len(p)))
	if err != nil {
		return 0, describeStorageError("opening ranged read", err)
	}
	defer reader.Close()

	n, err := io.ReadFull(reader, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

func (r *objectReaderAt) Close() error {
	return nil
}

func describeStorageError(context string, err error) error {
	if err == storage.ErrObjectNotExist {
		return fmt.Errorf("%s: object does not exist", context)
	}
	if err, ok := err.(*googleapi.Error); ok {
		switch err.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: invalid authentication: %v", context, err)
		case http.StatusForbidden:
			return fmt.Errorf("%s: permission denied: %v", context, err)
		}
	}
	return fmt.Errorf("%s: %v", context, err)
}
