package s3store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testOptions(endpoint string) Options {
	return Options{
		Bucket:       "cabinet-downloads",
		Region:       "us-east-1",
		Endpoint:     endpoint,
		AccessKey:    "AKIATESTKEY",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	}
}

type s3Stub struct {
	mu          sync.Mutex
	method      string
	path        string
	contentType string
	body        []byte
	status      int
	calls       int
}

func (s *s3Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.method = r.Method
	s.path = r.URL.Path
	s.contentType = r.Header.Get("Content-Type")
	s.body, _ = io.ReadAll(r.Body)

	if s.status != 0 {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(s.status)
		io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
		return
	}
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func TestStore_PutObject(t *testing.T) {
	stub := &s3Stub{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	store, err := New(context.Background(), zaptest.NewLogger(t), testOptions(srv.URL))
	require.NoError(t, err)

	payload := []byte("PK\x03\x04archive")
	err = store.PutObject(context.Background(), "downloads/abc.zip", payload, "application/zip")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, stub.method)
	assert.Equal(t, "/cabinet-downloads/downloads/abc.zip", stub.path)
	assert.Equal(t, "application/zip", stub.contentType)
	assert.Equal(t, payload, stub.body)
}

func TestStore_PutObject_Error_NoRetry(t *testing.T) {
	stub := &s3Stub{status: http.StatusForbidden}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	store, err := New(context.Background(), zaptest.NewLogger(t), testOptions(srv.URL))
	require.NoError(t, err)

	err = store.PutObject(context.Background(), "downloads/abc.zip", []byte("x"), "application/zip")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, 1, stub.calls)
}

func TestStore_PutObject_EmptyKey(t *testing.T) {
	store, err := New(context.Background(), zaptest.NewLogger(t), testOptions("http://127.0.0.1:9000"))
	require.NoError(t, err)

	err = store.PutObject(context.Background(), "", []byte("x"), "application/zip")
	assert.Equal(t, ErrObjectKeyEmpty, err)
}

func TestNew_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		assert.Equal(t, 1, lo.RetryMaxAttempts)
		return aws.Config{}, errors.New("boom")
	}

	_, err := New(context.Background(), zaptest.NewLogger(t), testOptions(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAWSConfig)

	_, err = NewDirectSigner(context.Background(), zaptest.NewLogger(t), testOptions(""))
	assert.ErrorIs(t, err, ErrAWSConfig)
}

func TestDirectSigner_SignGetURL(t *testing.T) {
	signer, err := NewDirectSigner(context.Background(), zaptest.NewLogger(t), testOptions("http://127.0.0.1:9000"))
	require.NoError(t, err)

	link, err := signer.SignGetURL(context.Background(), "downloads/abc.zip", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "/cabinet-downloads/downloads/abc.zip", u.Path)
	assert.Equal(t, "900", q.Get("X-Amz-Expires"))
	assert.Equal(t, "AWS4-HMAC-SHA256", q.Get("X-Amz-Algorithm"))
	assert.True(t, strings.HasPrefix(q.Get("X-Amz-Credential"), "AKIATESTKEY/"))
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
}

func TestDirectSigner_RequiresKeys(t *testing.T) {
	opts := testOptions("")
	opts.SecretKey = ""

	_, err := NewDirectSigner(context.Background(), zaptest.NewLogger(t), opts)
	assert.Equal(t, ErrNoStaticKeys, err)
}

func TestDelegatedSigner_UsesAssumedRole(t *testing.T) {
	orig := newAssumeRoleProvider
	t.Cleanup(func() { newAssumeRoleProvider = orig })

	var gotRole string
	newAssumeRoleProvider = func(cfg aws.Config, roleARN string) aws.CredentialsProvider {
		gotRole = roleARN
		return credentials.NewStaticCredentialsProvider("ASIAROLEKEY", "role-secret", "role-session-token")
	}

	opts := testOptions("http://127.0.0.1:9000")
	opts.AccessKey, opts.SecretKey = "", ""
	opts.RoleARN = "arn:aws:iam::123456789012:role/url-signer"

	signer, err := NewDelegatedSigner(context.Background(), zaptest.NewLogger(t), opts)
	require.NoError(t, err)

	link, err := signer.SignGetURL(context.Background(), "downloads/abc.zip", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "arn:aws:iam::123456789012:role/url-signer", gotRole)
	assert.True(t, strings.HasPrefix(q.Get("X-Amz-Credential"), "ASIAROLEKEY/"))
	assert.Equal(t, "role-session-token", q.Get("X-Amz-Security-Token"))
	assert.Equal(t, "900", q.Get("X-Amz-Expires"))
}

func TestDelegatedSigner_RequiresRole(t *testing.T) {
	_, err := NewDelegatedSigner(context.Background(), zaptest.NewLogger(t), testOptions(""))
	assert.Equal(t, ErrNoSignerRole, err)
}

func TestSigner_PresignError(t *testing.T) {
	orig := presignGetObject
	t.Cleanup(func() { presignGetObject = orig })

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("no credentials")
	}

	signer, err := NewDirectSigner(context.Background(), zaptest.NewLogger(t), testOptions(""))
	require.NoError(t, err)

	_, err = signer.SignGetURL(context.Background(), "downloads/abc.zip", time.Minute)
	assert.ErrorIs(t, err, ErrPresignFailed)

	_, err = signer.SignGetURL(context.Background(), "", time.Minute)
	assert.Equal(t, ErrObjectKeyEmpty, err)
}
