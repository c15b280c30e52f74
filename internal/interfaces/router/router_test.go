package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"nemostore-eda/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const storeDDL = `CREATE TABLE stores (
	id INTEGER PRIMARY KEY,
	title TEXT, businessLargeCodeName TEXT, businessMiddleCodeName TEXT,
	nearSubwayStation TEXT, floor INTEGER, groundFloor INTEGER,
	deposit REAL, monthlyRent REAL, premium REAL, maintenanceFee REAL, size REAL,
	viewCount INTEGER, favoriteCount INTEGER, createdDateUtc TEXT
)`

func seedStore(t *testing.T, path string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(storeDDL).Error)
	require.NoError(t, db.Exec(`INSERT INTO stores
		(title, businessLargeCodeName, businessMiddleCodeName, nearSubwayStation, floor, groundFloor,
		 deposit, monthlyRent, premium, maintenanceFee, size, viewCount, favoriteCount, createdDateUtc)
		VALUES
		('역삼 카페 자리', '음식점', '카페', '역삼역', 1, 5, 1000, 50, 2000, 10, 10, 10, 2, '2024-03-07 10:00:00'),
		('강남 PC방', '오락', 'PC방', '강남역', 2, 5, 3000, 80, NULL, 20, 20, 0, 0, '2024-03-08 10:00:00'),
		('선릉 베이커리', '음식점', '제과점', NULL, 1, 3, 500, 30, 1000, NULL, 0, 5, 1, NULL)`).Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func setupRouterTest(t *testing.T, seeded bool, redisURL string) *fiber.App {
	t.Helper()
	dir := t.TempDir()
	store := filepath.Join(dir, "nemo_store.db")
	if seeded {
		seedStore(t, store)
	}
	cfg := &config.Config{
		Env:               "test",
		StorePath:         store,
		StoreFallbackPath: filepath.Join(dir, "nemostore.db"),
		RedisURL:          redisURL,
		CacheTTL:          time.Minute,
		UploadMaxBytes:    1 << 20,
		CORSOrigins:       []string{"*"},
	}
	app, rdb, err := CreateApp(cfg)
	require.NoError(t, err)
	if rdb != nil {
		t.Cleanup(func() { rdb.Close() })
	}
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return resp.StatusCode, out
}

func data(out map[string]interface{}) map[string]interface{} {
	return out["data"].(map[string]interface{})
}

func TestOverview_FromStore(t *testing.T) {
	app := setupRouterTest(t, true, "")
	code, out := getJSON(t, app, "/api/v1/dashboard/overview")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "store", out["metadata"].(map[string]interface{})["source"])
	d := data(out)
	assert.Equal(t, float64(3), d["total"])
	assert.Equal(t, "50,000원", d["medianRent"].(map[string]interface{})["text"])
	assert.Equal(t, "음식점", d["topLargeCategory"])
}

func TestOverview_StoreMissingDegrades(t *testing.T) {
	app := setupRouterTest(t, false, "")
	code, out := getJSON(t, app, "/api/v1/dashboard/overview")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, out["metadata"].(map[string]interface{})["warning"], "source unavailable")
	d := data(out)
	assert.Equal(t, float64(0), d["total"])
	assert.Nil(t, d["medianRent"].(map[string]interface{})["value"])
	assert.Equal(t, "N/A", d["medianRent"].(map[string]interface{})["text"])
}

func TestIndustry_RentRangeInManwon(t *testing.T) {
	app := setupRouterTest(t, true, "")
	code, out := getJSON(t, app, "/api/v1/dashboard/industry?rent_min=4&rent_max=9")
	assert.Equal(t, http.StatusOK, code)
	d := data(out)
	assert.Equal(t, float64(2), d["count"])
	assert.Equal(t, "역삼 카페 자리", d["mostEfficient"])
	assert.Equal(t, "2", d["topRentFloor"])
}

func TestSearch_Filters(t *testing.T) {
	app := setupRouterTest(t, true, "")
	code, out := getJSON(t, app, "/api/v1/dashboard/search?large=%EC%A0%84%EC%B2%B4&min_interest=8")
	assert.Equal(t, http.StatusOK, code)
	d := data(out)
	assert.Equal(t, float64(2), d["count"])
	assert.Equal(t, float64(16), d["interestMax"])
	rows := d["rows"].([]interface{})
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "역삼 카페 자리", first["title"])
	assert.Equal(t, "1,000,000원", first["deposit"].(map[string]interface{})["text"])
	assert.Equal(t, "2024-03-07", first["createdDate"])
}

func TestSummary_MetricGroupedByCategory(t *testing.T) {
	app := setupRouterTest(t, true, "")
	code, out := getJSON(t, app, "/api/v1/dashboard/summary?metric=monthlyRent&group_by=businessLargeCodeName")
	assert.Equal(t, http.StatusOK, code)
	d := data(out)
	assert.Equal(t, "monthlyRent", d["metric"])
	assert.Equal(t, float64(3), d["count"])
	assert.Equal(t, float64(50000), d["median"])
	assert.Equal(t, float64(80000), d["max"])
	groups := d["groups"].([]interface{})
	require.Len(t, groups, 2)
	assert.Equal(t, "오락", groups[0].(map[string]interface{})["key"])
	assert.Equal(t, float64(40000), groups[1].(map[string]interface{})["mean"])
}

func TestBadParams(t *testing.T) {
	app := setupRouterTest(t, true, "")
	for path, param := range map[string]string{
		"/api/v1/dashboard/industry?rent_min=abc":          "rent_min",
		"/api/v1/dashboard/industry?deposit_max=-1":        "deposit_max",
		"/api/v1/dashboard/search?size_min=10&size_max=5":  "size_min",
		"/api/v1/dashboard/search?min_interest=1.5":        "min_interest",
		"/api/v1/dashboard/overview?source=csv:not-a-key":  "source",
		"/api/v1/dashboard/facets?source=parquet":          "source",
		"/api/v1/dashboard/summary":                        "metric",
		"/api/v1/dashboard/summary?metric=rooms":           "metric",
		"/api/v1/dashboard/summary?metric=size&group_by=x": "group_by",
	} {
		code, out := getJSON(t, app, path)
		assert.Equal(t, http.StatusBadRequest, code, path)
		assert.Equal(t, param, out["error"].(map[string]interface{})["details"].(map[string]interface{})["param"], path)
	}
}

func uploadCSV(t *testing.T, app *fiber.App, name, content string) (int, map[string]interface{}) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/v1/sources/csv", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

const uploadCSVBody = "title,businessLargeCodeName,businessMiddleCodeName,monthlyRent,size,viewCount,favoriteCount\n" +
	"업로드 매장,소매,편의점,120,30,1,1\n" +
	"업로드 매장 2,소매,편의점,60,20,0,0\n"

func TestUploadThenQuery(t *testing.T) {
	app := setupRouterTest(t, false, "")
	code, out := uploadCSV(t, app, "stores.csv", uploadCSVBody)
	require.Equal(t, http.StatusCreated, code)
	d := data(out)
	key := d["source_key"].(string)
	assert.Len(t, key, len("csv:")+64)
	assert.Equal(t, float64(2), d["rows"])

	code, out = getJSON(t, app, "/api/v1/dashboard/facets?source="+key+"&large=%EC%86%8C%EB%A7%A4")
	assert.Equal(t, http.StatusOK, code)
	f := data(out)
	assert.Equal(t, []interface{}{"all", "소매"}, f["largeCategories"])
	assert.Equal(t, []interface{}{"all", "편의점"}, f["middleCategories"])
	assert.Equal(t, float64(12), f["rentMax"])

	code, out = getJSON(t, app, "/api/v1/dashboard/search?source="+key+"&q=%EB%A7%A4%EC%9E%A5%202")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), data(out)["count"])

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/dashboard/search/export?source="+key, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	wb, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(wb.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestUpload_Rejections(t *testing.T) {
	app := setupRouterTest(t, false, "")

	code, _ := uploadCSV(t, app, "stores.xlsx", uploadCSVBody)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = uploadCSV(t, app, "empty.csv", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = uploadCSV(t, app, "ragged.csv", "a,b\n1,2,3\n")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestUnknownUploadKeyDegrades(t *testing.T) {
	app := setupRouterTest(t, false, "")
	key := "csv:" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	code, out := getJSON(t, app, "/api/v1/dashboard/search?source="+key)
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, out["metadata"].(map[string]interface{})["warning"])

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/dashboard/search/export?source="+key, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	app := setupRouterTest(t, true, "redis://"+mr.Addr())
	code, out := getJSON(t, app, "/api/v1/dashboard/overview")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), data(out)["total"])

	// cached snapshot plus request stats
	assert.NotEmpty(t, mr.Keys())
	code, out = getJSON(t, app, "/health/json")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", out["status"])
	traffic := out["traffic"].(map[string]interface{})
	assert.Equal(t, float64(1), traffic["totalRequests"])
}

func TestCreateApp_BadRedis(t *testing.T) {
	_, _, err := CreateApp(&config.Config{RedisURL: "http://nope"})
	assert.Error(t, err)
}
