package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuerySelectStar(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("animals"))

	assert.Equal(t, `SELECT * FROM "animals"`, query)
	assert.Empty(t, args)
}

func TestBuildListQueryColumns(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("animals",
		WithColumns("id", "name", "species"),
	))

	assert.Equal(t, `SELECT "id", "name", "species" FROM "animals"`, query)
	assert.Empty(t, args)
}

func TestBuildListQueryQualifiedIdentifiers(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions("medical_logs",
		WithColumns("medical_logs.id", "animals.name"),
		WithOrderBy("medical_logs.date", "desc"),
	))

	assert.Equal(t,
		`SELECT "medical_logs"."id", "animals"."name" FROM "medical_logs" ORDER BY "medical_logs"."date" DESC`,
		query)
}

func TestBuildListQueryConditionsAreAnded(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("animals",
		WithCondition(WhereCond("species", Equal, "Giraffe")),
		WithCondition(WhereCond("health_status", NotEqual, "quarantine")),
	))

	assert.Equal(t,
		`SELECT * FROM "animals" WHERE "species" = $1 AND "health_status" != $2`,
		query)
	assert.Equal(t, []any{"Giraffe", "quarantine"}, args)
}

func TestBuildListQueryILike(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("users",
		WithCondition(WhereCond("email", ILike, "%keeper%")),
	))

	assert.Equal(t, `SELECT * FROM "users" WHERE "email" ILIKE $1`, query)
	assert.Equal(t, []any{"%keeper%"}, args)
}

func TestBuildListQueryIn(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("users",
		WithCondition(WhereCond("role", In, []string{"vet", "zookeeper"})),
	))

	assert.Equal(t, `SELECT * FROM "users" WHERE "role" IN ($1, $2)`, query)
	assert.Equal(t, []any{"vet", "zookeeper"}, args)
}

func TestBuildListQueryInEmptySliceSkipped(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("users",
		WithCondition(WhereCond("role", In, []string{})),
		WithCondition(WhereCond("first_name", Equal, "Dana")),
	))

	assert.Equal(t, `SELECT * FROM "users" WHERE "first_name" = $1`, query)
	assert.Equal(t, []any{"Dana"}, args)
}

func TestBuildListQueryRawConditionRenumbering(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("animals",
		WithCondition(WhereCond("enclosure", Equal, "savanna-1")),
		WithCondition(WhereRawCond("(name ILIKE $1 OR species ILIKE $2)", "%zur%", "%zur%")),
	))

	assert.Equal(t,
		`SELECT * FROM "animals" WHERE "enclosure" = $1 AND (name ILIKE $2 OR species ILIKE $3)`,
		query)
	assert.Equal(t, []any{"savanna-1", "%zur%", "%zur%"}, args)
}

func TestBuildListQueryRawConditionRepeatedPlaceholder(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("feeding_logs",
		WithCondition(WhereRawCond("(animal_name = $1 OR notes ILIKE $1)", "Biko")),
	))

	assert.Equal(t,
		`SELECT * FROM "feeding_logs" WHERE (animal_name = $1 OR notes ILIKE $1)`,
		query)
	assert.Equal(t, []any{"Biko"}, args)
}

func TestBuildListQueryPagination(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("feeding_logs",
		WithCondition(WhereCond("animal_name", Equal, "Pip")),
		WithOrderBy("feeding_time", "DESC"),
		WithLimit(20),
		WithOffset(40),
	))

	assert.Equal(t,
		`SELECT * FROM "feeding_logs" WHERE "animal_name" = $1 ORDER BY "feeding_time" DESC LIMIT $2 OFFSET $3`,
		query)
	assert.Equal(t, []any{"Pip", 20, 40}, args)
}

func TestBuildListQueryZeroLimitIsExplicit(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("animals", WithLimit(0)))

	assert.Equal(t, `SELECT * FROM "animals" LIMIT $1`, query)
	assert.Equal(t, []any{0}, args)
}

func TestBuildListQueryNegativePaginationIgnored(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("animals",
		WithLimit(-5),
		WithOffset(-1),
	))

	assert.Equal(t, `SELECT * FROM "animals"`, query)
	assert.Empty(t, args)
}

func TestBuildListQueryOrderDirValidated(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions("animals",
		WithOrderBy("name", "DESC; DROP TABLE animals"),
	))

	assert.Equal(t, `SELECT * FROM "animals" ORDER BY "name"`, query)
}

func TestBuildListQueryQuotesHostileIdentifiers(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions("animals",
		WithCondition(WhereCond(`name" OR 1=1 --`, Equal, "x")),
	))

	assert.Equal(t, `SELECT * FROM "animals" WHERE "name"" OR 1=1 --" = $1`, query)
}

func TestBuildListQueryNilOptions(t *testing.T) {
	query, args := BuildListQuery(nil)

	assert.Empty(t, query)
	assert.Nil(t, args)
}
