package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStore_PreservesLoadOrder(t *testing.T) {
	recs := []Record{
		{ID: "q2", Kind: KindQuote, Fields: map[string]Value{}},
		{ID: "q1", Kind: KindQuote, Fields: map[string]Value{}},
		{ID: "c1", Kind: KindContract, Fields: map[string]Value{}},
	}
	s, err := NewStore(day("2026-01-31"), recs)
	require.NoError(t, err)

	quotes := s.ByKind(KindQuote)
	require.Len(t, quotes, 2)
	assert.Equal(t, "q2", quotes[0].ID)
	assert.Equal(t, "q1", quotes[1].ID)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, day("2026-01-31"), s.AsOf())
}

func TestStore_RejectsConflictingDuplicate(t *testing.T) {
	recs := []Record{
		{ID: "q1", Kind: KindQuote, Fields: map[string]Value{"net_amount": NumberValue(100)}},
		{ID: "q1", Kind: KindQuote, Fields: map[string]Value{"net_amount": NumberValue(200)}},
	}
	_, err := NewStore(day("2026-01-31"), recs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicting")
}

func TestStore_ToleratesAgreeingDuplicate(t *testing.T) {
	recs := []Record{
		{ID: "q1", Kind: KindQuote, Fields: map[string]Value{"net_amount": NumberValue(100)}},
		{ID: "q1", Kind: KindQuote, Fields: map[string]Value{"net_amount": NumberValue(100)}},
	}
	s, err := NewStore(day("2026-01-31"), recs)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.ByKind(KindQuote), 1)
}

func TestStore_Related(t *testing.T) {
	recs := []Record{
		{ID: "c1", Kind: KindContract, Fields: map[string]Value{}, Refs: map[string]string{"opportunity": "o1"}},
		{ID: "o1", Kind: KindOpportunity, Fields: map[string]Value{"amount": NumberValue(5000)}},
	}
	s, err := NewStore(day("2026-01-31"), recs)
	require.NoError(t, err)

	c, ok := s.Get("c1")
	require.True(t, ok)
	opp, ok := s.Related(c, "opportunity")
	require.True(t, ok)
	assert.Equal(t, "o1", opp.ID)

	_, ok = s.Related(c, "account")
	assert.False(t, ok)
}

func TestRecord_TypedAccess(t *testing.T) {
	rec := Record{
		ID:   "r1",
		Kind: KindQuote,
		Fields: map[string]Value{
			"net_amount": NumberValue(99.5),
			"status":     StringValue("Approved"),
			"primary":    BoolValue(true),
			"end_date":   DateValue(day("2026-03-01")),
		},
	}

	n, err := rec.Number("net_amount")
	require.NoError(t, err)
	assert.Equal(t, 99.5, n)

	s, err := rec.Text("status")
	require.NoError(t, err)
	assert.Equal(t, "Approved", s)

	b, err := rec.Flag("primary")
	require.NoError(t, err)
	assert.True(t, b)

	d, err := rec.Date("end_date")
	require.NoError(t, err)
	assert.Equal(t, day("2026-03-01"), d)
}

func TestRecord_FieldErrors(t *testing.T) {
	rec := Record{ID: "r1", Kind: KindQuote, Fields: map[string]Value{"status": StringValue("Draft")}}

	_, err := rec.Number("net_amount")
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "r1", fe.RecordID)
	assert.Equal(t, "net_amount", fe.Field)
	assert.Equal(t, "missing", fe.Reason)

	_, err = rec.Number("status")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "not a number", fe.Reason)
}

func TestRecord_LookupSkipsNull(t *testing.T) {
	rec := Record{ID: "r1", Kind: KindOrder, Fields: map[string]Value{"reference_number": {}}}
	_, ok := rec.Lookup("reference_number")
	assert.False(t, ok, "null value should read as absent")
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, NumberValue(1).Equal(NumberValue(1)))
	assert.False(t, NumberValue(1).Equal(NumberValue(2)))
	assert.False(t, NumberValue(1).Equal(StringValue("1")))
	assert.True(t, DateValue(day("2026-01-01")).Equal(DateValue(day("2026-01-01"))))
	assert.True(t, Value{}.Equal(Value{}))
}
