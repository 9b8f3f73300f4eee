package notifier

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
	"github.com/autopeer-io/fleetcare/pkg/log"
	"github.com/autopeer-io/fleetcare/pkg/options"
)

// ObjectStore is the subset of *minio.Client the archive writes through.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

var _ ObjectStore = (*minio.Client)(nil)

// ArchiveNotifier stores the PDF rendition of every notification in an S3
// compatible bucket under {kind}/{subject}/{name}.pdf.
type ArchiveNotifier struct {
	store  ObjectStore
	bucket string
}

func NewArchiveNotifier(store ObjectStore, bucket string) *ArchiveNotifier {
	return &ArchiveNotifier{store: store, bucket: bucket}
}

// ObjectKey returns where the document of n is stored.
func ObjectKey(n *model.Notification) string {
	name := "document"
	switch p := n.Payload.(type) {
	case *model.DuplicateArtifact:
		name = p.Code
	case *model.Quote:
		name = "approval"
	}
	return fmt.Sprintf("%s/%s/%s.pdf", strings.ReplaceAll(string(n.Kind), ".", "/"), n.SubjectID, name)
}

func (a *ArchiveNotifier) Notify(ctx context.Context, n *model.Notification) error {
	doc, err := RenderPDF(n)
	if err != nil {
		return err
	}

	key := ObjectKey(n)
	_, err = a.store.PutObject(ctx, a.bucket, key, bytes.NewReader(doc), int64(len(doc)), minio.PutObjectOptions{
		ContentType: "application/pdf",
		UserMetadata: map[string]string{
			"kind":    string(n.Kind),
			"subject": n.SubjectID,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}
	return nil
}

// NewMinIOClient connects to the object store described by opts.
func NewMinIOClient(opts *options.S3Options) (*minio.Client, error) {
	// Development deployments run MinIO with self-signed certificates.
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure:    opts.UseSSL,
		Region:    opts.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return client, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func EnsureBucket(ctx context.Context, client *minio.Client, bucket, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	log.Info("Bucket does not exist, creating...", "bucket", bucket)
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}
