package postgres

import (
	"errors"
	"net/url"
	"testing"

	"devcamper/internal/domain/bootcamp"
	"devcamper/internal/domain/course"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string, schema query.Schema) query.Params {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	p, err := query.Parse(v, schema)
	require.NoError(t, err)
	return p
}

func TestListQuery_Example(t *testing.T) {
	p := parse(t, "select=name,phone&sort=-name&page=2&limit=2", bootcamp.QuerySchema)

	sqlStr, args, err := listQuery(psql.Select("id").From("bootcamps"), p, "id").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bootcamps ORDER BY name DESC, id ASC LIMIT 2 OFFSET 2", sqlStr)
	assert.Empty(t, args)
}

func TestListQuery_DefaultSortAndPage(t *testing.T) {
	p := parse(t, "", bootcamp.QuerySchema)

	sqlStr, _, err := listQuery(psql.Select("id").From("bootcamps"), p, "id").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bootcamps ORDER BY created_at DESC, id ASC LIMIT 25 OFFSET 0", sqlStr)
}

func TestListQuery_Filters(t *testing.T) {
	p := parse(t, "averageCost[lte]=10000&careers[in]=Business,Other&housing=true&sort=averageCost", bootcamp.QuerySchema)

	sqlStr, args, err := listQuery(psql.Select("id").From("bootcamps"), p, "id").ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id FROM bootcamps WHERE (average_cost <= $1 AND careers && $2 AND housing = $3) "+
			"ORDER BY average_cost ASC, id ASC LIMIT 25 OFFSET 0",
		sqlStr)
	assert.Equal(t, []any{10000.0, []string{"Business", "Other"}, true}, args)
}

func TestPredicate_Operators(t *testing.T) {
	tests := []struct {
		query    string
		wantSQL  string
		wantArgs []any
	}{
		{"averageCost[gt]=1", "(average_cost > $1)", []any{1.0}},
		{"averageCost[gte]=1", "(average_cost >= $1)", []any{1.0}},
		{"averageCost[lt]=1", "(average_cost < $1)", []any{1.0}},
		{"averageCost[lte]=1", "(average_cost <= $1)", []any{1.0}},
		{"name[in]=a,b", "(name IN ($1,$2))", []any{"a", "b"}},
		{"careers=Business", "(careers @> $1)", []any{[]string{"Business"}}},
		{"location.city=Boston", "(city = $1)", []any{"Boston"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := parse(t, tt.query, bootcamp.QuerySchema)
			sqlStr, args, err := whereSQL(where(p.Filter))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sqlStr)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func whereSQL(s interface {
	ToSql() (string, []any, error)
}) (string, []any, error) {
	sqlStr, args, err := psql.Select("1").Where(s).ToSql()
	if err != nil {
		return "", nil, err
	}
	const prefix = "SELECT 1 WHERE "
	return sqlStr[len(prefix):], args, nil
}

func TestCountQuery_UsesFilter(t *testing.T) {
	p := parse(t, "averageCost[lte]=10000&page=3&limit=5", bootcamp.QuerySchema)

	sqlStr, args, err := countQuery("bootcamps", p).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM bootcamps WHERE (average_cost <= $1)", sqlStr)
	assert.Equal(t, []any{10000.0}, args)

	unfiltered, _, err := countQuery("bootcamps", parse(t, "", bootcamp.QuerySchema)).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM bootcamps", unfiltered)
}

func TestListQuery_QualifiedCourseColumns(t *testing.T) {
	p := parse(t, "tuition[gte]=5000&sort=-tuition", course.QuerySchema)
	p = p.Where("bootcamp", course.QuerySchema, "b1")

	sqlStr, args, err := listQuery(psql.Select("c.id").From(courseFrom), p, "c.id").ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT c.id FROM courses c JOIN bootcamps b ON b.id = c.bootcamp_id "+
			"WHERE (c.tuition >= $1 AND c.bootcamp_id = $2) ORDER BY c.tuition DESC, c.id ASC LIMIT 25 OFFSET 0",
		sqlStr)
	assert.Equal(t, []any{5000.0, "b1"}, args)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), repositories.ErrNotFound)

	dup := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "bootcamps_name_key"})
	assert.ErrorIs(t, dup, repositories.ErrDuplicate)
	assert.Contains(t, dup.Error(), "bootcamps_name_key")

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/devcamper?sslmode=disable", migrateURL("postgres://u:p@db:5432/devcamper?sslmode=disable"))
	assert.Equal(t, "pgx5://db/devcamper", migrateURL("postgresql://db/devcamper"))
	assert.Equal(t, "pgx5://db/x", migrateURL("pgx5://db/x"))
}
