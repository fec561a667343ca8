package dump_store

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

const s3DumpKeyPrefix = "assemblies_dump/"

// S3DumpStore keeps dumps in a bucket so every registry instance imports the
// same snapshot.
type S3DumpStore struct {
	bucket     string
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
}

func NewS3DumpStore(bucket, region string) (*S3DumpStore, error) {
	// AWS client session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3DumpStore{
		bucket:     bucket,
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
	}, nil
}

func (s *S3DumpStore) Save(ctx context.Context, name string, data []byte) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3DumpKeyPrefix + name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return errors.Wrapf(err, "upload dump %s", name)
}

func (s *S3DumpStore) Load(ctx context.Context, name string) ([]byte, error) {
	buf := aws.NewWriteAtBuffer([]byte{})
	_, err := s.downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3DumpKeyPrefix + name),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrDumpNotFound
		}
		return nil, errors.Wrapf(err, "download dump %s", name)
	}
	return buf.Bytes(), nil
}
