package vectorstore_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"scanrag/internal/vectorstore"
	"scanrag/internal/vectorstore/mocks"
)

func makePoints(n int) []vectorstore.Point {
	points := make([]vectorstore.Point, n)
	for i := range points {
		points[i] = vectorstore.Point{ID: string(rune('a' + i%26)), Vec: []float32{1}}
	}
	return points
}

func TestIndex_UpsertBatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	ix := vectorstore.NewIndex(store, "documents", 100)

	var sizes []int
	store.EXPECT().Upsert(gomock.Any(), "documents", gomock.Any()).
		DoAndReturn(func(ctx context.Context, collection string, points []vectorstore.Point) error {
			sizes = append(sizes, len(points))
			return nil
		}).Times(3)

	if err := ix.Upsert(context.Background(), makePoints(250)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	want := []int{100, 100, 50}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("batch %d size = %d, want %d", i, sizes[i], want[i])
		}
	}
}

func TestIndex_UpsertStopsOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	ix := vectorstore.NewIndex(store, "documents", 2)

	gomock.InOrder(
		store.EXPECT().Upsert(gomock.Any(), "documents", gomock.Len(2)).Return(nil),
		store.EXPECT().Upsert(gomock.Any(), "documents", gomock.Len(2)).Return(errors.New("unavailable")),
	)

	if err := ix.Upsert(context.Background(), makePoints(5)); err == nil {
		t.Fatal("Upsert() expected error from second batch")
	}
}

func TestIndex_ListDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	ix := vectorstore.NewIndex(store, "documents", 0)

	records := []vectorstore.Record{
		{ID: "1", Meta: map[string]any{"pdf_name": "a.pdf", "page_number": int64(1)}},
		{ID: "2", Meta: map[string]any{"pdf_name": "a.pdf", "page_number": int64(1)}},
		{ID: "3", Meta: map[string]any{"pdf_name": "a.pdf", "page_number": int64(2)}},
		{ID: "4", Meta: map[string]any{"pdf_name": "b.pdf", "page_number": 7}},
		{ID: "5", Meta: map[string]any{}},
	}
	store.EXPECT().Scroll(gomock.Any(), "documents", gomock.Any()).
		DoAndReturn(func(ctx context.Context, collection string, fn func(vectorstore.Record) error) error {
			for _, r := range records {
				if err := fn(r); err != nil {
					return err
				}
			}
			return nil
		})

	docs, err := ix.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("documents = %v, want 2 entries", docs)
	}
	if docs["a.pdf"].PageCount != 2 {
		t.Errorf("a.pdf pages = %d, want 2", docs["a.pdf"].PageCount)
	}
	if docs["b.pdf"].PageCount != 1 {
		t.Errorf("b.pdf pages = %d, want 1", docs["b.pdf"].PageCount)
	}
}

func scrollOver(records []vectorstore.Record, visited *int) func(context.Context, string, func(vectorstore.Record) error) error {
	return func(ctx context.Context, collection string, fn func(vectorstore.Record) error) error {
		for _, r := range records {
			*visited++
			if err := fn(r); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestIndex_FirstRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	ix := vectorstore.NewIndex(store, "documents", 0)
	ctx := context.Background()

	visited := 0
	records := []vectorstore.Record{
		{ID: "1", Meta: map[string]any{vectorstore.MetaEmbeddingModel: "bge"}},
		{ID: "2", Meta: map[string]any{vectorstore.MetaEmbeddingModel: "e5"}},
	}
	store.EXPECT().Scroll(gomock.Any(), "documents", gomock.Any()).DoAndReturn(scrollOver(records, &visited))

	rec, found, err := ix.FirstRecord(ctx)
	if err != nil {
		t.Fatalf("FirstRecord() error = %v", err)
	}
	if !found || rec.ID != "1" {
		t.Errorf("FirstRecord() = %v, %v; want record 1", rec, found)
	}
	if visited != 1 {
		t.Errorf("visited %d records, want 1", visited)
	}

	store.EXPECT().Scroll(gomock.Any(), "documents", gomock.Any()).DoAndReturn(scrollOver(nil, &visited))
	if _, found, err := ix.FirstRecord(ctx); err != nil || found {
		t.Errorf("FirstRecord() on empty = %v, %v; want not found", found, err)
	}

	store.EXPECT().Scroll(gomock.Any(), "documents", gomock.Any()).Return(errors.New("unavailable"))
	if _, _, err := ix.FirstRecord(ctx); err == nil {
		t.Error("FirstRecord() expected error from store")
	}
}

func TestIndex_DeleteDocumentAndStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)
	ix := vectorstore.NewIndex(store, "documents", 0)

	store.EXPECT().DeleteWhere(gomock.Any(), "documents", "pdf_name", "a.pdf").Return(nil)
	store.EXPECT().GetCollectionInfo(gomock.Any(), "documents").
		Return(&vectorstore.CollectionInfo{VectorSize: 1024, PointsCount: 12}, nil)

	ctx := context.Background()
	if err := ix.DeleteDocument(ctx, "a.pdf"); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	stats, err := ix.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats != (vectorstore.Stats{TotalVectors: 12, IndexName: "documents", Dimension: 1024}) {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestMetaInt(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want int
	}{
		{"int", 3, 3},
		{"int64", int64(4), 4},
		{"float64", float64(5), 5},
		{"string", "6", 6},
		{"garbage", "x", 0},
		{"missing", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := map[string]any{}
			if tt.v != nil {
				meta["k"] = tt.v
			}
			if got := vectorstore.MetaInt(meta, "k"); got != tt.want {
				t.Errorf("MetaInt() = %d, want %d", got, tt.want)
			}
		})
	}
}
