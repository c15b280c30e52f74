package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nemostore-eda/internal/application/filter"
	"nemostore-eda/internal/application/loader"
	"nemostore-eda/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `title,businessLargeCodeName,businessMiddleCodeName,nearSubwayStation,floor,groundFloor,deposit,monthlyRent,premium,maintenanceFee,size,viewCount,favoriteCount,createdDateUtc
역삼 카페 자리,음식점,카페,Yeoksam Station,1,5,1000,50,2000,10,10,10,2,2024-03-07T10:00:00Z
강남 PC방,오락,PC방,Gangnam Station,2,5,3000,80,,20,20,0,0,2024-03-08T10:00:00Z
선릉 베이커리,음식점,제과점,,1,3,500,30,1000,,0,5,1,
`

func setupDashboardTest(t *testing.T) (*Service, Source) {
	t.Helper()
	ld := loader.New(nil, "", nil)
	_, key, err := ld.LoadCSV(context.Background(), "sample.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)
	src, err := ParseSource(key)
	require.NoError(t, err)
	return &Service{Loader: ld}, src
}

func TestParseSource(t *testing.T) {
	for _, in := range []string{"", "store", " store "} {
		src, err := ParseSource(in)
		require.NoError(t, err)
		assert.Equal(t, StoreSource, src)
	}
	src, err := ParseSource("csv:abc123")
	require.NoError(t, err)
	assert.Equal(t, SourceCSV, src.Kind)
	assert.Equal(t, "csv:abc123", src.String())

	for _, in := range []string{"csv:", "sqlite", "file:x"} {
		_, err := ParseSource(in)
		assert.ErrorIs(t, err, ErrInvalidSource, in)
	}
}

func TestDataset_ScalesOnceAcrossCacheHits(t *testing.T) {
	svc, src := setupDashboardTest(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ds, err := svc.Dataset(ctx, src)
		require.NoError(t, err)
		require.Equal(t, 3, ds.Len())
		assert.Equal(t, 50000.0, *ds.Listings[0].MonthlyRent)
		assert.Equal(t, 1000000.0, *ds.Listings[0].Deposit)
		assert.Equal(t, 5000.0, ds.Listings[0].RentPerArea)
		assert.Equal(t, 16, ds.Listings[0].InterestScore)
	}
}

func TestOverview(t *testing.T) {
	svc, src := setupDashboardTest(t)
	o, err := svc.Overview(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, o.Total)
	assert.Equal(t, "1,000,000원", o.MedianDeposit.Text)
	assert.Equal(t, "50,000원", o.MedianRent.Text)
	require.NotNil(t, o.MeanSize)
	assert.InDelta(t, 10.0, *o.MeanSize, 1e-9)
	assert.Equal(t, "1,500,000원", o.MeanPremium.Text)
	assert.Equal(t, "음식점", o.TopLargeCategory)
	assert.Equal(t, []string{"음식점", "오락"}, []string{o.ByLargeCategory[0].Value, o.ByLargeCategory[1].Value})
	assert.Len(t, o.RentBins, 10)
	assert.Len(t, o.Scatter, 3)
}

func TestIndustry_UsesSidebarFiltersOnly(t *testing.T) {
	svc, src := setupDashboardTest(t)
	c := filter.Criteria{
		MonthlyRent:  &filter.Range{Min: 40000, Max: 90000},
		TitleKeyword: "no such title",
	}
	in, err := svc.Industry(context.Background(), src, c)
	require.NoError(t, err)
	assert.Equal(t, 2, in.Count)
	assert.Equal(t, "65,000원", in.MeanRent.Text)
	require.NotEmpty(t, in.TopRentPerArea)
	assert.Equal(t, "역삼 카페 자리", in.TopRentPerArea[0].Title)
	assert.Equal(t, "역삼 카페 자리", in.MostEfficient)
	assert.Equal(t, "2", in.TopRentFloor)
	require.Len(t, in.TopInterest, 2)
	assert.Equal(t, "역삼 카페 자리", in.TopInterest[0].Title)
	assert.Equal(t, 16.0, in.TopInterest[0].Value)
}

func TestIndustry_Empty(t *testing.T) {
	svc, src := setupDashboardTest(t)
	in, err := svc.Industry(context.Background(), src, filter.Criteria{LargeCategory: "소매"})
	require.NoError(t, err)
	assert.Zero(t, in.Count)
	assert.Nil(t, in.MeanRent.Value)
	assert.Equal(t, "N/A", in.MeanRent.Text)
	assert.Nil(t, in.MeanInterest)
	assert.Empty(t, in.TopRentPerArea)
	assert.Empty(t, in.TopRentFloor)
}

func TestSearch(t *testing.T) {
	svc, src := setupDashboardTest(t)
	ctx := context.Background()

	res, err := svc.Search(ctx, src, filter.Criteria{MinInterest: 8})
	require.NoError(t, err)
	assert.Equal(t, 16, res.InterestMax)
	require.Equal(t, 2, res.Count)
	assert.Equal(t, "역삼 카페 자리", res.Rows[0].Title)
	assert.Equal(t, "선릉 베이커리", res.Rows[1].Title)

	row := res.Rows[0]
	assert.Equal(t, "1,000,000원", row.Deposit.Text)
	assert.Equal(t, "50,000원", row.MonthlyRent.Text)
	assert.Equal(t, "5,000원", row.RentPerArea.Text)
	assert.Equal(t, "2024-03-07", row.CreatedDate)
	assert.Equal(t, "Yeoksam Station", row.Station)

	last := res.Rows[1]
	assert.Equal(t, "N/A", last.MaintenanceFee.Text)
	assert.Equal(t, "N/A", last.CreatedDate)
	assert.Equal(t, "N/A", last.Station)

	res, err = svc.Search(ctx, src, filter.Criteria{StationKeyword: "gangnam"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "N/A", res.Rows[0].Premium.Text)

	res, err = svc.Search(ctx, src, filter.Criteria{LargeCategory: "음식점", TitleKeyword: "카페"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 16, res.InterestMax)
}

func TestFacets(t *testing.T) {
	svc, src := setupDashboardTest(t)
	f, err := svc.Facets(context.Background(), src, "음식점")
	require.NoError(t, err)
	assert.Equal(t, []string{filter.All, "오락", "음식점"}, f.LargeCategories)
	assert.Equal(t, []string{filter.All, "제과점", "카페"}, f.MiddleCategories)
	assert.Equal(t, 300, f.DepositMax)
	assert.Equal(t, 8, f.RentMax)
}

type failingLoader struct {
	calls int
}

func (f *failingLoader) LoadStore(context.Context) (*domain.RawDataset, error) {
	f.calls++
	return domain.EmptyRaw("store"), loader.ErrSourceUnavailable
}

func (f *failingLoader) Lookup(context.Context, string) (*domain.RawDataset, error) {
	f.calls++
	return domain.EmptyRaw("csv"), loader.ErrSourceUnavailable
}

func TestSourceFailureYieldsEmptyReports(t *testing.T) {
	fl := &failingLoader{}
	svc := &Service{Loader: fl}
	ctx := context.Background()

	o, err := svc.Overview(ctx, StoreSource)
	assert.True(t, errors.Is(err, loader.ErrSourceUnavailable))
	assert.Zero(t, o.Total)
	assert.Nil(t, o.MedianRent.Value)
	assert.Empty(t, o.TopLargeCategory)
	assert.NotNil(t, o.RentBins)

	s, err := svc.Search(ctx, Source{Kind: SourceCSV, Key: "csv:missing"}, filter.Criteria{})
	assert.ErrorIs(t, err, loader.ErrSourceUnavailable)
	assert.Zero(t, s.Count)
	assert.Equal(t, 100, s.InterestMax)
	assert.Equal(t, 2, fl.calls)
}

func TestSummary_GroupedByLargeCategory(t *testing.T) {
	svc, src := setupDashboardTest(t)
	s, err := svc.Summary(context.Background(), src, filter.Criteria{}, domain.MetricMonthlyRent, domain.CategoryLarge)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	require.NotNil(t, s.Mean)
	assert.InDelta(t, 160000.0/3, *s.Mean, 1e-6)
	assert.Equal(t, 50000.0, *s.Median)
	assert.Equal(t, 80000.0, *s.Max)
	require.Len(t, s.Groups, 2)
	assert.Equal(t, "오락", s.Groups[0].Key)
	assert.Equal(t, "음식점", s.Groups[1].Key)
	assert.Equal(t, 40000.0, s.Groups[1].Mean)
	assert.Equal(t, 2, s.Groups[1].Count)
}

func TestSummary_Ungrouped(t *testing.T) {
	svc, src := setupDashboardTest(t)
	s, err := svc.Summary(context.Background(), src, filter.Criteria{LargeCategory: "음식점"}, domain.MetricPremium, "")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 2000000.0, *s.Max)
	assert.Empty(t, s.Groups)
}
