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

package genomics

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
)

// ReaderAtCloser is the random access handle returned by an Opener.
type ReaderAtCloser interface {
	io.ReaderAt
	io.Closer
}

// Opener resolves a configured data path to a random access reader.  How
// the path is fetched (local file, object store) is up to the
// implementation; the assembly core never opens paths itself.
type Opener interface {
	Open(ctx context.Context, path string) (ReaderAtCloser, int64, error)
}

// FileOpener opens paths on the local filesystem.
type FileOpener struct{}

// Open implements Opener.
func (FileOpener) Open(_ context.Context, path string) (ReaderAtCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("reading file size: %v", err)
	}
	return f, info.Size(), nil
}

// ReadAll opens path through opener and returns its entire contents.  It
// is a convenience for the small flat metadata files that are parsed in
// one pass.
func ReadAll(ctx context.Context, opener Opener, path string) ([]byte, error) {
	r, size, err := opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := ioutil.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", path, err)
	}
	return data, nil
}
