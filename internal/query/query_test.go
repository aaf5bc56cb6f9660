package query

import (
	"encoding/json"
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	"id":          {Column: "id", Kind: KindText},
	"name":        {Column: "name", Kind: KindText},
	"phone":       {Column: "phone", Kind: KindText},
	"averageCost": {Column: "average_cost", Kind: KindNumber},
	"housing":     {Column: "housing", Kind: KindBool},
	"careers":     {Column: "careers", Kind: KindTextArray},
	"integer":     {Column: "integer_col", Kind: KindNumber},
	"interest":    {Column: "interest", Kind: KindText},
	"createdAt":   {Column: "created_at", Kind: KindTime},
}

func mustValues(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

func TestParseFilter_Operators(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Predicate
	}{
		{
			name:  "equality",
			query: "name=Devworks",
			want:  Predicate{Field: "name", Column: "name", Kind: KindText, Op: OpEq, Values: []any{"Devworks"}},
		},
		{
			name:  "lte on number",
			query: "averageCost[lte]=10000",
			want:  Predicate{Field: "averageCost", Column: "average_cost", Kind: KindNumber, Op: OpLte, Values: []any{10000.0}},
		},
		{
			name:  "gt on number",
			query: "averageCost[gt]=5",
			want:  Predicate{Field: "averageCost", Column: "average_cost", Kind: KindNumber, Op: OpGt, Values: []any{5.0}},
		},
		{
			name:  "bool equality",
			query: "housing=true",
			want:  Predicate{Field: "housing", Column: "housing", Kind: KindBool, Op: OpEq, Values: []any{true}},
		},
		{
			name:  "in with comma list",
			query: "careers[in]=Business,UI/UX",
			want:  Predicate{Field: "careers", Column: "careers", Kind: KindTextArray, Op: OpIn, Values: []any{"Business", "UI/UX"}},
		},
		{
			name:  "in with repeated keys",
			query: "careers[in]=Business&careers[in]=Other",
			want:  Predicate{Field: "careers", Column: "careers", Kind: KindTextArray, Op: OpIn, Values: []any{"Business", "Other"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds, err := ParseFilter(mustValues(t, tt.query), testSchema)
			require.NoError(t, err)
			require.Len(t, preds, 1)
			assert.Equal(t, tt.want, preds[0])
		})
	}
}

func TestParseFilter_WholeWordOperators(t *testing.T) {
	preds, err := ParseFilter(mustValues(t, "integer[gte]=3&interest=interesting"), testSchema)
	require.NoError(t, err)
	require.Len(t, preds, 2)

	assert.Equal(t, "integer", preds[0].Field)
	assert.Equal(t, "integer_col", preds[0].Column)
	assert.Equal(t, OpGte, preds[0].Op)

	assert.Equal(t, "interest", preds[1].Field)
	assert.Equal(t, OpEq, preds[1].Op)
	assert.Equal(t, "interesting", preds[1].Value())
}

func TestParseFilter_ReservedKeysNeverFilter(t *testing.T) {
	preds, err := ParseFilter(mustValues(t, "select=name&sort=-name&page=2&limit=5&name=x"), testSchema)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "name", preds[0].Field)
}

func TestParseFilter_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown operator", "name[regex]=x"},
		{"unknown field", "color=red"},
		{"bad number", "averageCost[lte]=cheap"},
		{"bad bool", "housing=maybe"},
		{"range on bool", "housing[gt]=true"},
		{"range on array", "careers[lt]=Business"},
		{"repeated equality", "name=a&name=b"},
		{"malformed key", "name[gt=1"},
		{"empty in", "careers[in]=,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(mustValues(t, tt.query), testSchema)
			var qerr *Error
			require.ErrorAs(t, err, &qerr)
		})
	}
}

func TestParseFilter_TimeValue(t *testing.T) {
	preds, err := ParseFilter(mustValues(t, "createdAt[gte]=2024-01-02"), testSchema)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), preds[0].Value())
}

func TestParseSort(t *testing.T) {
	got, err := ParseSort("-name,averageCost", testSchema)
	require.NoError(t, err)
	assert.Equal(t, []SortField{
		{Field: "name", Column: "name", Desc: true},
		{Field: "averageCost", Column: "average_cost", Desc: false},
	}, got)

	def, err := ParseSort("", testSchema)
	require.NoError(t, err)
	assert.Equal(t, []SortField{{Field: "createdAt", Column: "created_at", Desc: true}}, def)

	_, err = ParseSort("-nope", testSchema)
	assert.Error(t, err)
}

func TestParseSelect(t *testing.T) {
	got, err := ParseSelect("name, phone", testSchema)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "phone"}, got)

	none, err := ParseSelect("", testSchema)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = ParseSelect("name,secret", testSchema)
	assert.Error(t, err)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		page, limit string
		want        Page
	}{
		{"", "", Page{Page: 1, Limit: 25}},
		{"3", "10", Page{Page: 3, Limit: 10}},
		{"abc", "x", Page{Page: 1, Limit: 25}},
		{"0", "-4", Page{Page: 1, Limit: 25}},
		{" 2 ", "7", Page{Page: 2, Limit: 7}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePage(tt.page, tt.limit), "page=%q limit=%q", tt.page, tt.limit)
	}
}

func TestPaginate(t *testing.T) {
	for page := 1; page <= 6; page++ {
		for limit := 1; limit <= 6; limit++ {
			for total := int64(0); total <= 12; total++ {
				p := Page{Page: page, Limit: limit}
				pg := Paginate(p, total)

				assert.Equal(t, (page-1)*limit, p.StartIndex())
				assert.Equal(t, int64(page*limit) < total, pg.Next != nil)
				assert.Equal(t, page > 1, pg.Prev != nil)
				if pg.Next != nil {
					assert.Equal(t, Page{Page: page + 1, Limit: limit}, *pg.Next)
				}
				if pg.Prev != nil {
					assert.Equal(t, Page{Page: page - 1, Limit: limit}, *pg.Prev)
				}
			}
		}
	}
}

func TestPaginate_HugePage(t *testing.T) {
	p := ParsePage("4611686018427387904", "2")
	assert.Equal(t, math.MaxInt, p.EndIndex())
	assert.Equal(t, math.MaxInt-1, p.StartIndex())

	pg := Paginate(p, 5)
	assert.Nil(t, pg.Next)
	require.NotNil(t, pg.Prev)
	assert.Equal(t, Page{Page: 4611686018427387903, Limit: 2}, *pg.Prev)

	pg = Paginate(Page{Page: math.MaxInt, Limit: math.MaxInt}, 5)
	assert.Nil(t, pg.Next)
	assert.NotNil(t, pg.Prev)
}

type camp struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func TestParse_ExampleRequest(t *testing.T) {
	p, err := Parse(mustValues(t, "select=name,phone&sort=-name&page=2&limit=2"), testSchema)
	require.NoError(t, err)

	assert.Empty(t, p.Filter)
	assert.Equal(t, []string{"name", "phone"}, p.Select)
	assert.Equal(t, Page{Page: 2, Limit: 2}, p.Page)
	assert.Equal(t, 2, p.Page.StartIndex())

	res := Result[camp]{
		Items: []camp{
			{ID: "3", Name: "C", Phone: "333", Email: "c@x.io"},
			{ID: "4", Name: "B", Phone: "444", Email: "b@x.io"},
		},
		Total: 5,
	}
	env, err := NewEnvelope(res, p)
	require.NoError(t, err)

	body, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"count": 2,
		"pagination": {"prev": {"page": 1, "limit": 2}, "next": {"page": 3, "limit": 2}},
		"data": [
			{"id": "3", "name": "C", "phone": "333"},
			{"id": "4", "name": "B", "phone": "444"}
		]
	}`, string(body))
}

func TestNewEnvelope_EmptyPage(t *testing.T) {
	env, err := NewEnvelope(Result[camp]{}, Params{Page: ParsePage("", "")})
	require.NoError(t, err)

	body, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"count":0,"pagination":{},"data":[]}`, string(body))
}

func TestParams_Where(t *testing.T) {
	p, err := Parse(mustValues(t, "name=x"), testSchema)
	require.NoError(t, err)

	scoped := p.Where("phone", testSchema, "123")
	assert.Len(t, p.Filter, 1)
	require.Len(t, scoped.Filter, 2)
	assert.Equal(t, Predicate{Field: "phone", Column: "phone", Kind: KindText, Op: OpEq, Values: []any{"123"}}, scoped.Filter[1])
}

func TestSelectOnlyField(t *testing.T) {
	schema := Schema{
		"name":      {Column: "name", Kind: KindText},
		"createdAt": {Column: "created_at", Kind: KindTime},
		"courses":   {},
	}

	sel, err := ParseSelect("name,courses", schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "courses"}, sel)

	_, err = ParseFilter(mustValues(t, "courses=x"), schema)
	assert.Error(t, err)

	_, err = ParseSort("courses", schema)
	assert.Error(t, err)
}
