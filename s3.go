package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"gonum.org/v1/plot"
)

const presignExpiry = 1 * time.Hour

// plotStore keeps rendered plots in S3.
type plotStore struct {
	svc      s3iface.S3API
	uploader s3manageriface.UploaderAPI
}

func newPlotStore(sess *session.Session) *plotStore {
	svc := s3.New(sess)
	return &plotStore{svc: svc, uploader: s3manager.NewUploaderWithClient(svc)}
}

func (store *plotStore) bucketExists(name string) (bool, error) {
	list, err := store.svc.ListBuckets(&s3.ListBucketsInput{})
	if err != nil {
		return false, fmt.Errorf("could not list buckets: %w", err)
	}

	for _, bucket := range list.Buckets {
		if aws.StringValue(bucket.Name) == name {
			return true, nil
		}
	}

	return false, nil
}

// ensureBucket creates the bucket unless it already exists.
func (store *plotStore) ensureBucket(name string) error {
	exists, err := store.bucketExists(name)
	if err != nil || exists {
		return err
	}

	_, err = store.svc.CreateBucket(&s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("unable to create bucket %q: %w", name, err)
	}

	debugf("Waiting for bucket %q to be created...", name)
	err = store.svc.WaitUntilBucketExists(&s3.HeadBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("error occurred while waiting for bucket %q to be created: %w", name, err)
	}

	debugf("Bucket %q successfully created", name)
	return nil
}

// upload streams body to bucket/key and returns a presigned link to it.
func (store *plotStore) upload(body io.Reader, bucketName, key string) (string, error) {
	_, err := store.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", fmt.Errorf("error occurred while piping plot to s3://%s/%s: %w", bucketName, key, err)
	}

	return store.presignedLink(bucketName, key)
}

func (store *plotStore) presignedLink(bucketName, key string) (string, error) {
	req, _ := store.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	urlStr, err := req.Presign(presignExpiry)
	if err != nil {
		return "", errors.Join(errors.New("failed to sign request"), err)
	}

	return urlStr, nil
}

// uploadPlot renders p straight into the upload and returns a presigned link
// to the stored image.
func uploadPlot(store *plotStore, p *plot.Plot, bucketName, name string, now time.Time) (string, error) {
	if err := store.ensureBucket(bucketName); err != nil {
		return "", err
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(writePlot(pw, p, defaultImageFormat))
	}()
	defer pr.Close()

	return store.upload(pr, bucketName, objectKey(now, name))
}

func objectKey(now time.Time, name string) string {
	return now.Format("2006-01-02") + " " + name + "." + defaultImageFormat
}
