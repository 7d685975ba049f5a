package vectorstore

import (
	"context"
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestParseQdrantURL(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		wantHost string
		wantPort int
		wantTLS  bool
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://qdrant.internal:9000",
			wantHost: "qdrant.internal",
			wantPort: 9001,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name:     "https enables TLS",
			urlStr:   "https://cloud.example.com:6333",
			wantHost: "cloud.example.com",
			wantPort: 6334,
			wantTLS:  true,
		},
		{
			name:    "invalid URL",
			urlStr:  "://invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, useTLS, err := parseQdrantURL(tt.urlStr)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parseQdrantURL() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseQdrantURL() error = %v", err)
			}
			if host != tt.wantHost {
				t.Errorf("host = %q, want %q", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("port = %d, want %d", port, tt.wantPort)
			}
			if useTLS != tt.wantTLS {
				t.Errorf("useTLS = %v, want %v", useTLS, tt.wantTLS)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	if _, err := NewQdrantStore("://invalid", "", false); err == nil {
		t.Error("NewQdrantStore() with invalid URL should return error")
	}
}

func TestQdrantStore_EarlyReturns(t *testing.T) {
	store := &QdrantStore{}
	ctx := context.Background()

	if err := store.Upsert(ctx, "test-collection", nil); err != nil {
		t.Errorf("Upsert() with no points error = %v", err)
	}
	if err := store.Delete(ctx, "test-collection", nil); err != nil {
		t.Errorf("Delete() with no ids error = %v", err)
	}
	if _, err := store.Search(ctx, "test-collection", []float32{1, 2}, 0, nil); err == nil {
		t.Error("Search() with k=0 should return error")
	}
}

func TestBuildFilter(t *testing.T) {
	if f := buildFilter(nil); f != nil {
		t.Errorf("buildFilter(nil) = %v, want nil", f)
	}

	f := buildFilter(map[string]any{MetaPDFName: "scan.pdf", MetaPageNumber: 3})
	if len(f.Must) != 2 {
		t.Fatalf("conditions = %d, want 2", len(f.Must))
	}
	for _, c := range f.Must {
		field := c.GetField()
		switch field.GetKey() {
		case MetaPDFName:
			if got := field.GetMatch().GetKeyword(); got != "scan.pdf" {
				t.Errorf("pdf_name keyword = %q", got)
			}
		case MetaPageNumber:
			if got := field.GetMatch().GetInteger(); got != 3 {
				t.Errorf("page_number integer = %d", got)
			}
		default:
			t.Errorf("unexpected condition key %q", field.GetKey())
		}
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	if got := convertPayloadToMap(nil); got == nil || len(got) != 0 {
		t.Errorf("convertPayloadToMap(nil) = %v, want empty map", got)
	}

	payload := qdrant.NewValueMap(map[string]any{
		MetaPDFName:    "scan.pdf",
		MetaPageNumber: 2,
		MetaContent:    "hello",
	})
	got := convertPayloadToMap(payload)
	if MetaString(got, MetaPDFName) != "scan.pdf" {
		t.Errorf("pdf_name = %v", got[MetaPDFName])
	}
	if MetaInt(got, MetaPageNumber) != 2 {
		t.Errorf("page_number = %v", got[MetaPageNumber])
	}
	if MetaString(got, MetaContent) != "hello" {
		t.Errorf("content = %v", got[MetaContent])
	}
}

func TestPointIDString(t *testing.T) {
	const id = "0b5c3a8e-8f6e-4a8e-9d8a-1f3b2c4d5e6f"
	if got := pointIDString(qdrant.NewID(id)); got != id {
		t.Errorf("uuid id = %q, want %q", got, id)
	}
	if got := pointIDString(qdrant.NewIDNum(42)); got != "42" {
		t.Errorf("numeric id = %q, want 42", got)
	}
	if got := pointIDString(nil); got != "" {
		t.Errorf("nil id = %q, want empty", got)
	}
}
