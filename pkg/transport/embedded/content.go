package embedded

import (
	"bytes"
	"context"
	"crypto/md5"  // #nosec
	"crypto/sha1" // #nosec
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/jonathangreen/tuque-sub001/pkg/storage"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// Checksum types understood by the repository
const (
	ChecksumDisabled = "DISABLED"
	ChecksumMD5      = "MD5"
	ChecksumSHA1     = "SHA-1"
	ChecksumSHA256   = "SHA-256"
	ChecksumSHA384   = "SHA-384"
	ChecksumSHA512   = "SHA-512"

	noChecksum = "none"
)

func newHash(checksumType string) (hash.Hash, error) {
	switch strings.ToUpper(checksumType) {
	case "", ChecksumDisabled:
		return nil, nil
	case ChecksumMD5:
		return md5.New(), nil // #nosec
	case ChecksumSHA1:
		return sha1.New(), nil // #nosec
	case ChecksumSHA256:
		return sha256.New(), nil
	case ChecksumSHA384:
		return sha512.New384(), nil
	case ChecksumSHA512:
		return sha512.New(), nil
	default:
		return nil, status.ErrInvalidAttributeValue.WrapMessage(fmt.Sprintf("unsupported checksum type %q", checksumType))
	}
}

// digester counts and hashes the content written through it
type digester struct {
	size int64
	h    hash.Hash
}

func (d *digester) Write(p []byte) (int, error) {
	d.size += int64(len(p))
	if d.h != nil {
		_, _ = d.h.Write(p)
	}
	return len(p), nil
}

func (d *digester) sum() string {
	if d.h == nil {
		return noChecksum
	}
	return hex.EncodeToString(d.h.Sum(nil))
}

// writeContent stores the content of a datastream version and updates its size, location and checksum.
//
// Managed and inline content is copied from the source body or from a previous upload.
// Redirect and external datastreams only record the source location.
func (t *Transport) writeContent(ctx context.Context, pid string, info *model.DatastreamInfo, source model.ContentSource, expectedChecksum *string) error {
	if info.ControlGroup.IsReference() {
		if source.Body != nil {
			return status.ErrInvalidAttributeValue.WrapMessage(
				fmt.Sprintf("datastream %s with control group %s takes a location, not content", info.ID, info.ControlGroup))
		}
		info.Location = source.Location
		info.Size = 0
		info.Checksum = noChecksum
		return nil
	}

	body := source.Body
	var uploadKey string
	switch {
	case body != nil:
	case source.Location == "":
		body = bytes.NewReader(nil)
	default:
		uploadID, ok := model.UploadIDFromReference(source.Location)
		if !ok {
			return status.ErrNotSupported.WrapMessage(fmt.Sprintf("cannot fetch content from %s", source.Location))
		}
		uploadKey = model.GetPathToUpload(uploadID)
		rdr, err := t.store.Get(ctx, uploadKey)
		if err != nil {
			if errors.Is(err, status.ErrNotFound) {
				return status.ErrNotFound.WrapMessage(fmt.Sprintf("upload %s", source.Location))
			}
			return err
		}
		defer func() {
			_ = rdr.Close()
		}()
		body = rdr
	}

	key := model.GetPathToDatastreamContent(pid, info.ID, info.VersionID)
	if err := t.storeDigested(ctx, key, body, info, expectedChecksum); err != nil {
		return err
	}
	info.Location = fmt.Sprintf("%s+%s+%s", pid, info.ID, info.VersionID)

	if uploadKey != "" {
		if err := t.store.Delete(ctx, uploadKey); err != nil {
			t.l.Warn("could not remove consumed upload", zap.String("key", uploadKey), zap.Error(err))
		}
	}
	return nil
}

// rewriteContent carries the content of the current version over to the next one.
// The checksum is computed again when its type changes.
func (t *Transport) rewriteContent(ctx context.Context, pid string, current model.DatastreamInfo, next *model.DatastreamInfo, rehash bool) error {
	if current.VersionID == next.VersionID && !rehash {
		return nil
	}
	rdr, err := t.store.Get(ctx, model.GetPathToDatastreamContent(pid, current.ID, current.VersionID))
	if err != nil {
		return err
	}
	defer func() {
		_ = rdr.Close()
	}()
	if current.VersionID == next.VersionID {
		// the content is read fully before being overwritten
		buffer, err := io.ReadAll(rdr)
		if err != nil {
			return err
		}
		return t.storeDigested(ctx, model.GetPathToDatastreamContent(pid, next.ID, next.VersionID), bytes.NewReader(buffer), next, nil)
	}
	if err := t.storeDigested(ctx, model.GetPathToDatastreamContent(pid, next.ID, next.VersionID), rdr, next, nil); err != nil {
		return err
	}
	next.Location = fmt.Sprintf("%s+%s+%s", pid, next.ID, next.VersionID)
	return nil
}

func (t *Transport) storeDigested(ctx context.Context, key string, body io.Reader, info *model.DatastreamInfo, expectedChecksum *string) error {
	h, err := newHash(info.ChecksumType)
	if err != nil {
		return err
	}
	d := &digester{h: h}
	if err := t.store.Put(ctx, key, io.TeeReader(body, d), storage.OverWrite); err != nil {
		return err
	}
	sum := d.sum()
	if expectedChecksum != nil && *expectedChecksum != "" && h != nil && !strings.EqualFold(*expectedChecksum, sum) {
		_ = t.store.Delete(ctx, key)
		return status.ErrInvalidAttributeValue.WrapMessage(
			fmt.Sprintf("checksum mismatch on datastream %s: expected %s, got %s", info.ID, *expectedChecksum, sum))
	}
	info.Size = d.size
	info.Checksum = sum
	return nil
}

// Upload stages content for a later AddDatastream, ModifyDatastream or IngestDocument
func (t *Transport) Upload(ctx context.Context, content io.Reader) (string, error) {
	k, err := ksuid.NewRandom()
	if err != nil {
		return "", err
	}
	id := k.String()
	if err := t.store.Put(ctx, model.GetPathToUpload(id), content, storage.NoOverWrite); err != nil {
		return "", err
	}
	ref := model.UploadReference(id)
	t.l.Debug("content uploaded", zap.String("reference", ref))
	return ref, nil
}

// NextIdentifier mints identifiers from a counter kept for each namespace
func (t *Transport) NextIdentifier(ctx context.Context, namespace string, count int) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nextIdentifiers(ctx, namespace, count)
}

func (t *Transport) nextIdentifiers(ctx context.Context, namespace string, count int) ([]string, error) {
	if namespace == "" {
		namespace = t.namespace
	}
	if err := model.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	if count < 1 {
		count = 1
	}

	key := model.GetPathToIdentifierCounter(namespace)
	counter := counterRecord{Namespace: namespace}
	if err := t.getRecord(ctx, key, &counter); err != nil && !errors.Is(err, status.ErrNotFound) {
		return nil, err
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		counter.Last++
		ids = append(ids, fmt.Sprintf("%s:%d", namespace, counter.Last))
	}
	if err := t.putRecord(ctx, key, counter); err != nil {
		return nil, err
	}
	return ids, nil
}
