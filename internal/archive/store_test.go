package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3Client records PutObject calls for testing.
type mockS3Client struct {
	putCalls []putCall
	err      error
}

type putCall struct {
	bucket      string
	key         string
	contentType string
	metadata    map[string]string
	body        []byte
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	body, _ := io.ReadAll(input.Body)
	m.putCalls = append(m.putCalls, putCall{
		bucket:      *input.Bucket,
		key:         *input.Key,
		contentType: *input.ContentType,
		metadata:    input.Metadata,
		body:        body,
	})
	return &s3.PutObjectOutput{}, nil
}

func TestStore_ArchiveExport(t *testing.T) {
	mock := &mockS3Client{}
	store := NewStore(mock, "lead-exports", nil)
	store.now = func() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) }

	data := []byte("First Name,Last Name\nAsha,Rao\n")
	err := store.ArchiveExport(context.Background(), "bridgei2p-leads-2026-10-15.csv", data, 1)
	require.NoError(t, err)

	require.Len(t, mock.putCalls, 1)
	call := mock.putCalls[0]
	assert.Equal(t, "lead-exports", call.bucket)
	assert.Equal(t, "exports/bridgei2p-leads-2026-10-15-093000.000000000Z.csv", call.key)
	assert.Equal(t, "text/csv", call.contentType)
	assert.Equal(t, data, call.body)
	assert.Equal(t, "1", call.metadata["rows"])
	assert.Equal(t, "2026-10-15T09:30:00Z", call.metadata["exported-at"])
}

func TestStore_DisabledIsNoop(t *testing.T) {
	mock := &mockS3Client{}
	store := NewStore(mock, "", nil)

	assert.False(t, store.Enabled())
	require.NoError(t, store.ArchiveExport(context.Background(), "x.csv", []byte("a"), 0))
	assert.Empty(t, mock.putCalls)

	var nilStore *Store
	assert.False(t, nilStore.Enabled())
}

func TestStore_PutError(t *testing.T) {
	store := NewStore(&mockS3Client{err: errors.New("access denied")}, "b", nil)

	err := store.ArchiveExport(context.Background(), "x.csv", []byte("a"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exports/x-")
}

func TestKeyStripsDirectories(t *testing.T) {
	at := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "exports/leads-093000.000000000Z.csv", Key("../../leads.csv", at))
}

func TestStore_SameDayExportsKeepSeparateKeys(t *testing.T) {
	mock := &mockS3Client{}
	store := NewStore(mock, "lead-exports", nil)
	at := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return at }

	name := "bridgei2p-leads-2026-10-15.csv"
	require.NoError(t, store.ArchiveExport(context.Background(), name, []byte("all"), 3))
	at = at.Add(2 * time.Minute)
	require.NoError(t, store.ArchiveExport(context.Background(), name, []byte("acme"), 1))

	require.Len(t, mock.putCalls, 2)
	assert.NotEqual(t, mock.putCalls[0].key, mock.putCalls[1].key)
	assert.Equal(t, "exports/bridgei2p-leads-2026-10-15-093200.000000000Z.csv", mock.putCalls[1].key)
}
