package directory

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Directory decorates a local Directory (RAM or mmap-backed) with durable
// off-box backup: Flush uploads the full header+body image to an S3 object,
// and LoadExisting downloads it first if no local copy is present. All
// random-access reads/writes during normal operation hit the local backing
// Directory directly — S3 has no random-access-write story, so it only ever
// participates at flush/load boundaries, exactly the kind of capability the
// Directory contract is meant to hide behind an interface.
type S3Directory struct {
	backing     Directory
	client      *s3.Client
	bucket, key string
	headerBytes int
}

// NewS3Directory wraps backing with an S3 object at bucket/key, using the
// default AWS credential chain.
func NewS3Directory(ctx context.Context, backing Directory, bucket, key string) (*S3Directory, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 directory %s: load aws config: %w", backing.Name(), err)
	}
	return &S3Directory{
		backing: backing,
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		key:     key,
	}, nil
}

func (d *S3Directory) Name() string { return d.backing.Name() }

func (d *S3Directory) Create(headerBytes, initialBodyBytes int) error {
	d.headerBytes = headerBytes
	return d.backing.Create(headerBytes, initialBodyBytes)
}

// LoadExisting prefers a local copy; if the backing Directory has none, it
// downloads the object from S3 and replays it into a fresh local region.
func (d *S3Directory) LoadExisting(headerBytes int) (bool, error) {
	d.headerBytes = headerBytes
	ok, err := d.backing.LoadExisting(headerBytes)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return d.downloadInto(headerBytes)
}

func (d *S3Directory) downloadInto(headerBytes int) (bool, error) {
	ctx := context.Background()
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key),
	})
	if err != nil {
		// No remote backup either: this is a fresh region, not an error.
		return false, nil
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return false, fmt.Errorf("s3 directory %s: read object: %w", d.Name(), err)
	}
	if len(data) < headerBytes {
		return false, fmt.Errorf("s3 directory %s: object shorter than header (%d < %d)", d.Name(), len(data), headerBytes)
	}

	if err := d.backing.Create(headerBytes, len(data)-headerBytes); err != nil {
		return false, err
	}
	for i := 0; i < headerBytes; i += 4 {
		d.backing.SetHeader(i, int32(ByteOrder.Uint32(data[i:i+4])))
	}
	d.backing.SetBytes(0, data[headerBytes:])
	return true, nil
}

// Flush commits the backing Directory, then uploads its full image to S3.
func (d *S3Directory) Flush() error {
	if err := d.backing.Flush(); err != nil {
		return err
	}
	buf := bytes.NewBuffer(make([]byte, 0, d.headerBytes+int(d.backing.Capacity())))
	for i := 0; i < d.headerBytes; i += 4 {
		var tmp [4]byte
		ByteOrder.PutUint32(tmp[:], uint32(d.backing.GetHeader(i)))
		buf.Write(tmp[:])
	}
	body := make([]byte, d.backing.Capacity())
	d.backing.GetBytes(0, body)
	buf.Write(body)

	ctx := context.Background()
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("s3 directory %s: put object: %w", d.Name(), err)
	}
	return nil
}

func (d *S3Directory) Close() error { return d.backing.Close() }

func (d *S3Directory) Capacity() int64                         { return d.backing.Capacity() }
func (d *S3Directory) IncCapacity(n int64) (bool, error)       { return d.backing.IncCapacity(n) }
func (d *S3Directory) TrimTo(n int64) error                    { return d.backing.TrimTo(n) }
func (d *S3Directory) GetInt(offset int64) int32               { return d.backing.GetInt(offset) }
func (d *S3Directory) SetInt(offset int64, value int32)        { d.backing.SetInt(offset, value) }
func (d *S3Directory) GetBytes(offset int64, buf []byte)       { d.backing.GetBytes(offset, buf) }
func (d *S3Directory) SetBytes(offset int64, buf []byte)       { d.backing.SetBytes(offset, buf) }
func (d *S3Directory) GetHeader(slotOffset int) int32          { return d.backing.GetHeader(slotOffset) }
func (d *S3Directory) SetHeader(slotOffset int, value int32)   { d.backing.SetHeader(slotOffset, value) }
func (d *S3Directory) SetSegmentSize(bytes int)                { d.backing.SetSegmentSize(bytes) }
func (d *S3Directory) CopyTo(other Directory) error            { return d.backing.CopyTo(other) }
