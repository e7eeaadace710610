package query_test

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testFields = query.FieldMap{
	"name":           {Column: "name", Kind: query.KindString},
	"careers":        {Column: "careers", Kind: query.KindContains},
	"housing":        {Column: "housing", Kind: query.KindBool},
	"average_cost":   {Column: "average_cost", Kind: query.KindNumber},
	"average_rating": {Column: "average_rating", Kind: query.KindNumber},
	"city":           {Column: "city", Kind: query.KindString},
}

func TestParse_OperatorsAndReservedKeys(t *testing.T) {
	values, err := url.ParseQuery("average_cost[gte]=1000&city=Boston&careers[in]=Business,Other&select=name,careers&sort=-name&page=2&limit=10")
	require.NoError(t, err)

	opts := query.Parse(values)

	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, []string{"name", "careers"}, opts.Select)
	assert.Equal(t, []string{"-name"}, opts.Sort)
	assert.Len(t, opts.Conditions, 3)

	byField := map[string]query.Condition{}
	for _, c := range opts.Conditions {
		byField[c.Field] = c
	}
	assert.Equal(t, query.OpGte, byField["average_cost"].Operator)
	assert.Equal(t, []string{"1000"}, byField["average_cost"].Values)
	assert.Equal(t, query.OpEq, byField["city"].Operator)
	assert.Equal(t, query.OpIn, byField["careers"].Operator)
}

func TestParse_Defaults(t *testing.T) {
	opts := query.Parse(url.Values{})
	assert.Equal(t, query.DefaultPage, opts.Page)
	assert.Equal(t, query.DefaultLimit, opts.Limit)
	assert.Empty(t, opts.Conditions)
}

func TestParse_LimitClamping(t *testing.T) {
	values, _ := url.ParseQuery("limit=5000&page=-3")
	opts := query.Parse(values)
	assert.Equal(t, query.MaxLimit, opts.Limit)
	assert.Equal(t, query.DefaultPage, opts.Page)
}

// A key that happens to be an operator word stays an equality filter
// in the typed builder; it is never rewritten into an operator.
func TestParse_OperatorWordAsFieldName(t *testing.T) {
	values, _ := url.ParseQuery("gte=10")
	opts := query.Parse(values)
	require.Len(t, opts.Conditions, 1)
	assert.Equal(t, "gte", opts.Conditions[0].Field)
	assert.Equal(t, query.OpEq, opts.Conditions[0].Operator)
}

func TestPaginate_NextPrevProperty(t *testing.T) {
	cases := []struct {
		page, limit int
		total       int64
		wantNext    bool
		wantPrev    bool
	}{
		{1, 25, 0, false, false},
		{1, 25, 25, false, false},
		{1, 25, 26, true, false},
		{2, 25, 26, false, true},
		{2, 10, 100, true, true},
		{3, 2, 5, false, true},
		{1, 2, 5, true, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("page=%d_limit=%d_total=%d", tc.page, tc.limit, tc.total), func(t *testing.T) {
			p := query.Paginate(tc.page, tc.limit, tc.total)
			assert.Equal(t, tc.wantNext, p.Next != nil, "next presence")
			assert.Equal(t, tc.wantPrev, p.Prev != nil, "prev presence")
			if p.Next != nil {
				assert.Equal(t, tc.page+1, p.Next.Page)
				assert.Equal(t, tc.limit, p.Next.Limit)
			}
			if p.Prev != nil {
				assert.Equal(t, tc.page-1, p.Prev.Page)
				assert.Equal(t, tc.limit, p.Prev.Limit)
			}
		})
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named in-memory database per test keeps the schema alive across
	// pooled connections without leaking state between tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Bootcamp{}, &models.Course{}, &models.Review{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func seedBootcamps(t *testing.T, db *gorm.DB) {
	t.Helper()
	camps := []models.Bootcamp{
		{Name: "Devworks", Description: "d", Address: "a", City: "Boston", Careers: []string{"Web Development", "UI/UX"}, AverageCost: 8000, Housing: true, UserID: "u1"},
		{Name: "Codemasters", Description: "d", Address: "a", City: "Boston", Careers: []string{"Web Development", "Data Science"}, AverageCost: 12000, UserID: "u1"},
		{Name: "Appdev", Description: "d", Address: "a", City: "Lowell", Careers: []string{"Mobile Development"}, AverageCost: 6000, UserID: "u2"},
		{Name: "Bizschool", Description: "d", Address: "a", City: "Boston", Careers: []string{"Business"}, AverageCost: 4000, UserID: "u2"},
	}
	for i := range camps {
		require.NoError(t, db.Create(&camps[i]).Error)
	}
}

func TestRun_FilterSortSelectWindow(t *testing.T) {
	db := openTestDB(t)
	seedBootcamps(t, db)

	values, _ := url.ParseQuery("careers=Web Development&select=name,careers&sort=name&page=1&limit=2")
	opts := query.Parse(values)

	var out []models.Bootcamp
	res, err := query.Run(db.Model(&models.Bootcamp{}), testFields, opts, nil, &out)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, int64(2), res.Total)
	// Ascending by name: Codemasters before Devworks
	assert.Equal(t, "Codemasters", out[0].Name)
	assert.Equal(t, "Devworks", out[1].Name)
	for _, b := range out {
		assert.Contains(t, b.Careers, "Web Development")
		// Unselected fields come back zero-valued
		assert.Empty(t, b.City)
		assert.NotEmpty(t, b.ID)
	}
}

func TestRun_RangeOperator(t *testing.T) {
	db := openTestDB(t)
	seedBootcamps(t, db)

	values, _ := url.ParseQuery("average_cost[gte]=6000&average_cost[lte]=10000")
	opts := query.Parse(values)

	var out []models.Bootcamp
	res, err := query.Run(db.Model(&models.Bootcamp{}), testFields, opts, nil, &out)
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Total)
	for _, b := range out {
		assert.GreaterOrEqual(t, b.AverageCost, 6000.0)
		assert.LessOrEqual(t, b.AverageCost, 10000.0)
	}
}

func TestRun_FilteredCountDrivesPagination(t *testing.T) {
	db := openTestDB(t)
	seedBootcamps(t, db)

	// 3 bootcamps in Boston, window of 2: next page must exist even
	// though the whole collection holds 4 records.
	values, _ := url.ParseQuery("city=Boston&page=1&limit=2")
	opts := query.Parse(values)

	var out []models.Bootcamp
	res, err := query.Run(db.Model(&models.Bootcamp{}), testFields, opts, nil, &out)
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.Total)
	assert.Len(t, out, 2)
	require.NotNil(t, res.Pagination.Next)
	assert.Equal(t, 2, res.Pagination.Next.Page)
	assert.Nil(t, res.Pagination.Prev)
}

func TestRun_DefaultSortNewestFirst(t *testing.T) {
	db := openTestDB(t)

	older := models.Bootcamp{Name: "Older", Description: "d", Address: "a", UserID: "u1"}
	require.NoError(t, db.Create(&older).Error)
	newer := models.Bootcamp{Name: "Newer", Description: "d", Address: "a", UserID: "u1"}
	newer.CreatedAt = older.CreatedAt.Add(time.Second)
	require.NoError(t, db.Create(&newer).Error)

	var out []models.Bootcamp
	_, err := query.Run(db.Model(&models.Bootcamp{}), testFields, query.Parse(url.Values{}), nil, &out)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "Newer", out[0].Name)
}

func TestRun_UnknownFieldIgnored(t *testing.T) {
	db := openTestDB(t)
	seedBootcamps(t, db)

	values, _ := url.ParseQuery("no_such_field=zzz")
	opts := query.Parse(values)

	var out []models.Bootcamp
	res, err := query.Run(db.Model(&models.Bootcamp{}), testFields, opts, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Total)
}

func TestRun_ContainsWildcardsMatchLiterally(t *testing.T) {
	db := openTestDB(t)
	seedBootcamps(t, db)

	// A bare wildcard must not turn the careers filter into match-all.
	values, _ := url.ParseQuery("careers=%")
	opts := query.Parse(values)

	var out []models.Bootcamp
	res, err := query.Run(db.Model(&models.Bootcamp{}), testFields, opts, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)
	assert.Empty(t, out)

	values, _ = url.ParseQuery("careers=Web_Development")
	opts = query.Parse(values)

	out = nil
	res, err = query.Run(db.Model(&models.Bootcamp{}), testFields, opts, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total, "underscore must not act as a single-character wildcard")
}
