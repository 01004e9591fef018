// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/pkg/errors"
)

const s3Prefix = "s3://"

type objectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ shared.FileStore = &FileStore{}

// FileStore reads local files and s3 objects. Without an s3 client only local paths are supported.
type FileStore struct {
	s3 objectAPI
}

type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

func NewFileStore(s3Client objectAPI) *FileStore {
	return &FileStore{s3: s3Client}
}

// NewFileStoreFromEnv reads S3_REGION, S3_ENDPOINT and S3_PATH_STYLE. Credentials come from the default chain.
func NewFileStoreFromEnv(ctx context.Context) (*FileStore, error) {
	cfg := S3Config{
		Region:    os.Getenv("S3_REGION"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("S3_PATH_STYLE"), "true"),
	}
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewFileStore(client), nil
}

func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "could not load aws config")
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func (f *FileStore) DoesFileExist(ctx context.Context, path string) (bool, error) {
	if strings.HasPrefix(path, s3Prefix) {
		return f.doesObjectExist(ctx, path)
	}
	if strings.Contains(path, "://") {
		return false, errors.Errorf("unsupported storage location %s", path)
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "could not stat %s", path)
	}
	return !info.IsDir(), nil
}

func (f *FileStore) doesObjectExist(ctx context.Context, path string) (bool, error) {
	bucket, key, err := f.objectLocation(path)
	if err != nil {
		return false, err
	}
	_, err = f.s3.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &bucket, Key: &key})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, errors.Wrapf(err, "could not check %s", path)
}

func (f *FileStore) objectLocation(path string) (string, string, error) {
	if f.s3 == nil {
		return "", "", errors.New("no s3 client configured")
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(path, s3Prefix), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", errors.Errorf("invalid s3 path %s", path)
	}
	return bucket, key, nil
}

func (f *FileStore) Open(ctx context.Context, path string, byteRange *shared.ByteRange) (shared.FileStream, error) {
	if strings.HasPrefix(path, s3Prefix) {
		return f.openObject(ctx, path, byteRange)
	}
	if strings.Contains(path, "://") {
		return shared.FileStream{}, errors.Errorf("unsupported storage location %s", path)
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return shared.FileStream{}, errors.Wrapf(shared.ErrNotFound, "%s does not exist", path)
	}
	if err != nil {
		return shared.FileStream{}, errors.Wrapf(err, "could not open %s", path)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return shared.FileStream{}, errors.Wrapf(err, "could not stat %s", path)
	}
	if info.IsDir() {
		file.Close()
		return shared.FileStream{}, errors.Wrapf(shared.ErrNotFound, "%s is a directory", path)
	}
	if byteRange == nil {
		return shared.FileStream{Body: file, ContentLength: info.Size()}, nil
	}

	start, end, err := resolveRange(*byteRange, info.Size())
	if err != nil {
		file.Close()
		return shared.FileStream{}, err
	}
	if _, err := file.Seek(start, io.SeekStart); err != nil {
		file.Close()
		return shared.FileStream{}, errors.Wrapf(err, "could not seek %s", path)
	}
	length := end - start + 1
	return shared.FileStream{
		Body:          readCloser{Reader: io.LimitReader(file, length), Closer: file},
		ContentLength: length,
		ContentRange:  fmt.Sprintf("bytes %d-%d/%d", start, end, info.Size()),
	}, nil
}

func (f *FileStore) openObject(ctx context.Context, path string, byteRange *shared.ByteRange) (shared.FileStream, error) {
	bucket, key, err := f.objectLocation(path)
	if err != nil {
		return shared.FileStream{}, err
	}
	input := &s3.GetObjectInput{Bucket: &bucket, Key: &key}
	if byteRange != nil {
		input.Range = aws.String(byteRange.Header())
	}
	out, err := f.s3.GetObject(ctx, input)
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return shared.FileStream{}, errors.Wrapf(shared.ErrNotFound, "%s does not exist", path)
		}
		var apiErr interface{ ErrorCode() string }
		if byteRange != nil && errors.As(err, &apiErr) && apiErr.ErrorCode() == "InvalidRange" {
			return shared.FileStream{}, errors.Wrapf(shared.ErrRangeNotSatisfiable, "%s for %s", byteRange.Header(), path)
		}
		return shared.FileStream{}, errors.Wrapf(err, "could not get %s", path)
	}
	stream := shared.FileStream{Body: out.Body, ContentLength: aws.ToInt64(out.ContentLength)}
	if out.ContentLength == nil {
		stream.ContentLength = -1
	}
	if byteRange != nil {
		stream.ContentRange = aws.ToString(out.ContentRange)
	}
	return stream, nil
}

// resolveRange clamps the range to the file size.
func resolveRange(r shared.ByteRange, size int64) (int64, int64, error) {
	if r.Start < 0 || r.Start >= size || (r.End >= 0 && r.End < r.Start) {
		return 0, 0, errors.Wrapf(shared.ErrRangeNotSatisfiable, "%s of %d bytes", r.Header(), size)
	}
	end := r.End
	if end < 0 || end >= size {
		end = size - 1
	}
	return r.Start, end, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
