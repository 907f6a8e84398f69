package product

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct() *Published {
	return &Published{
		PublishedID: "pub_1741944413589_4821",
		OriginalID:  "prod_20250314_092653",
		Title:       `Vintage "Sunset" Tee`,
		Description: "Warm colors",
		Tags:        []string{"vintage", "retro", "sunset"},
		ImageFile:   "product_20250314_092653.jpg",
		Price:       24.99,
		PublishedAt: time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.Local),
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestStoreRecordGolden(t *testing.T) {
	newGoldie(t).Assert(t, "store_record", []byte(StoreRecord(testProduct())))
}

func TestPublishResponseGolden(t *testing.T) {
	urls := URLs{
		Store: "https://mockstore.example.com/products",
		Admin: "https://admin.mockstore.example.com/products/",
	}
	newGoldie(t).Assert(t, "publish_response", []byte(PublishResponse(testProduct(), urls)))
}

func TestStoreRecordIsValidJSON(t *testing.T) {
	p := testProduct()
	p.Description = "line one\nline two with a \\ backslash"

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(StoreRecord(p)), &decoded))
	assert.Equal(t, p.Title, decoded["title"])
	assert.Equal(t, p.Description, decoded["description"])
	assert.Equal(t, 24.99, decoded["price"])
}

func TestStoreRecordSingleLine(t *testing.T) {
	p := testProduct()
	p.Description = "multi\nline"
	assert.NotContains(t, StoreRecord(p), "\n")
}

func TestStoreRecordEmptyTags(t *testing.T) {
	p := testProduct()
	p.Tags = nil
	assert.Contains(t, StoreRecord(p), `"tags": []`)
}

func TestStoreRecordPriceTwoDecimals(t *testing.T) {
	p := testProduct()
	p.Price = 30
	assert.Contains(t, StoreRecord(p), `"price": 30.00`)
}

func TestStoreRecordRoundTrip(t *testing.T) {
	p := testProduct()
	p.Title = "Space Galaxy Phone Case"
	p.Description = "Deep space imagery with nebulas and stars."

	record := StoreRecord(p)
	assert.Equal(t, p.Title, ExtractScalar(record, "title"))
	assert.Equal(t, p.Description, ExtractScalar(record, "description"))
	assert.Equal(t, p.Tags, ExtractArray(record, "tags"))
	assert.Equal(t, p.PublishedID, ExtractScalar(record, "published_id"))
	assert.Equal(t, p.OriginalID, ExtractScalar(record, "original_id"))
	assert.Equal(t, p.ImageFile, ExtractScalar(record, "image_file"))
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)
	assert.Equal(t, "2025-01-02T03:04:05.000", FormatTimestamp(ts))
}

func TestLogLine(t *testing.T) {
	p := testProduct()
	p.Title = "Mug"
	now := time.Date(2025, 3, 14, 9, 26, 54, 0, time.Local)
	assert.Equal(t, "2025-03-14T09:26:54.000 - Published: pub_1741944413589_4821 - Mug - $24.99\n", LogLine(p, now))
}

func TestPublishResponseIsValidJSON(t *testing.T) {
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(PublishResponse(testProduct(), URLs{Store: "s", Admin: "a"})), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "published", decoded["status"])
	assert.Equal(t, "s/pub_1741944413589_4821", decoded["product_url"])
	assert.Equal(t, "a/pub_1741944413589_4821", decoded["admin_url"])
}
