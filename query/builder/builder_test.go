package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormkit/sqlwriter/record"
	"github.com/ormkit/sqlwriter/schema"
)

func blogSchema(t *testing.T) (*schema.Model, *schema.Model, *schema.Model) {
	t.Helper()

	s := schema.NewSchema()
	user := &schema.Model{Name: "User", Table: "users", IDColumn: "id"}
	post := &schema.Model{Name: "Post", Table: "posts", IDColumn: "id"}
	tag := &schema.Model{Name: "Tag", Table: "tags", IDColumn: "id"}
	for _, m := range []*schema.Model{user, post, tag} {
		require.NoError(t, s.AddModel(m))
	}

	postToUser := &schema.Relation{
		Name:             "PostToUser",
		Kind:             schema.RelationKindInline,
		ForeignKeyModel:  post,
		ForeignKeyColumn: "author_id",
	}
	user.AddRelationField(&schema.RelationField{Name: "posts", RelatedModel: post, Relation: postToUser, IsList: true})
	post.AddRelationField(&schema.RelationField{Name: "author", RelatedModel: user, Relation: postToUser, IsRequired: true})

	postToTag := &schema.Relation{
		Name:          "PostToTag",
		Kind:          schema.RelationKindTable,
		JunctionTable: "_post_tags",
		JunctionColumns: map[string]string{
			"Post": "post_id",
			"Tag":  "tag_id",
		},
	}
	post.AddRelationField(&schema.RelationField{Name: "tags", RelatedModel: tag, Relation: postToTag, IsList: true})
	tag.AddRelationField(&schema.RelationField{Name: "posts", RelatedModel: post, Relation: postToTag, IsList: true})

	return user, post, tag
}

func TestSelectByFinder(t *testing.T) {
	user, _, _ := blogSchema(t)
	b := NewWriteBuilder("postgres")

	query := b.SelectByFinder(record.NewFinder(user, "email", "ada@example.com"), nil)
	assert.Equal(t, `SELECT * FROM "users" WHERE "email" = $1 LIMIT $2`, query.SQL)
	assert.Equal(t, []interface{}{"ada@example.com", 1}, query.Args)

	query = b.SelectByFinder(record.NewFinder(user, "email", "ada@example.com"), []string{"id"})
	assert.Equal(t, `SELECT id FROM "users" WHERE "email" = $1 LIMIT $2`, query.SQL)
}

func TestSelectIDByParent(t *testing.T) {
	user, post, _ := blogSchema(t)
	b := NewWriteBuilder("postgres")
	userPosts := user.RelationFields()[0]

	t.Run("ForeignKeyOnChild", func(t *testing.T) {
		query, err := b.SelectIDByParent(userPosts, int64(1), nil)
		require.NoError(t, err)
		assert.Equal(t, `SELECT id FROM "posts" WHERE "author_id" = $1 ORDER BY "id" ASC LIMIT $2`, query.SQL)
		assert.Equal(t, []interface{}{int64(1), 1}, query.Args)
	})

	t.Run("ForeignKeyOnChildWithFinder", func(t *testing.T) {
		finder := record.NewFinder(post, "slug", "hello")
		query, err := b.SelectIDByParent(userPosts, int64(1), finder)
		require.NoError(t, err)
		assert.Equal(t, `SELECT id FROM "posts" WHERE "author_id" = $1 AND "slug" = $2 ORDER BY "id" ASC LIMIT $3`, query.SQL)
		assert.Equal(t, []interface{}{int64(1), "hello", 1}, query.Args)
	})

	t.Run("ForeignKeyOnParent", func(t *testing.T) {
		// The inverse direction: resolving the author under a post.
		postAuthor := post.RelationFields()[0]
		query, err := b.SelectIDByParent(postAuthor, int64(7), nil)
		require.NoError(t, err)
		assert.Equal(t, `SELECT id FROM "users" WHERE "id" IN (SELECT "author_id" FROM "posts" WHERE "id" = $1) ORDER BY "id" ASC LIMIT 1`, query.SQL)
		assert.Equal(t, []interface{}{int64(7)}, query.Args)
	})

	t.Run("JunctionTable", func(t *testing.T) {
		postTags := post.RelationFields()[1]
		query, err := b.SelectIDByParent(postTags, int64(7), nil)
		require.NoError(t, err)
		assert.Equal(t, `SELECT id FROM "tags" WHERE "id" IN (SELECT "tag_id" FROM "_post_tags" WHERE "post_id" = $1) ORDER BY "id" ASC LIMIT 1`, query.SQL)
		assert.Equal(t, []interface{}{int64(7)}, query.Args)
	})
}

func TestConnectedProbe(t *testing.T) {
	user, post, _ := blogSchema(t)
	b := NewWriteBuilder("postgres")

	t.Run("ForeignKeyOnChild", func(t *testing.T) {
		userPosts := user.RelationFields()[0]
		query, err := b.ConnectedProbe(userPosts, int64(1), int64(7))
		require.NoError(t, err)
		assert.Equal(t, `SELECT id FROM "posts" WHERE "id" = $1 AND "author_id" = $2 LIMIT $3`, query.SQL)
		assert.Equal(t, []interface{}{int64(7), int64(1), 1}, query.Args)
	})

	t.Run("ForeignKeyOnParent", func(t *testing.T) {
		postAuthor := post.RelationFields()[0]
		query, err := b.ConnectedProbe(postAuthor, int64(7), int64(1))
		require.NoError(t, err)
		assert.Equal(t, `SELECT author_id FROM "posts" WHERE "id" = $1 AND "author_id" = $2 LIMIT $3`, query.SQL)
		assert.Equal(t, []interface{}{int64(7), int64(1), 1}, query.Args)
	})

	t.Run("JunctionTable", func(t *testing.T) {
		postTags := post.RelationFields()[1]
		query, err := b.ConnectedProbe(postTags, int64(7), int64(5))
		require.NoError(t, err)
		assert.Equal(t, `SELECT tag_id FROM "_post_tags" WHERE "post_id" = $1 AND "tag_id" = $2 LIMIT $3`, query.SQL)
		assert.Equal(t, []interface{}{int64(7), int64(5), 1}, query.Args)
	})
}

func TestViolationProbe(t *testing.T) {
	user, post, _ := blogSchema(t)
	b := NewWriteBuilder("postgres")

	t.Run("ForeignKeyOnDependent", func(t *testing.T) {
		// Posts require their author; probing a user delete scans posts.
		postAuthor := post.RelationFields()[0]
		query, err := b.ViolationProbe(postAuthor, []record.ID{int64(1), int64(2)})
		require.NoError(t, err)
		assert.Equal(t, `SELECT id FROM "posts" WHERE "author_id" IN ($1, $2) LIMIT $3`, query.SQL)
		assert.Equal(t, []interface{}{int64(1), int64(2), 1}, query.Args)
	})

	t.Run("ForeignKeyOnCandidate", func(t *testing.T) {
		userPosts := user.RelationFields()[0]
		query, err := b.ViolationProbe(userPosts, []record.ID{int64(7)})
		require.NoError(t, err)
		assert.Equal(t, `SELECT author_id FROM "posts" WHERE "id" IN ($1) AND "author_id" IS NOT NULL LIMIT $2`, query.SQL)
		assert.Equal(t, []interface{}{int64(7), 1}, query.Args)
	})

	t.Run("JunctionTable", func(t *testing.T) {
		postTags := post.RelationFields()[1]
		query, err := b.ViolationProbe(postTags, []record.ID{int64(5)})
		require.NoError(t, err)
		assert.Equal(t, `SELECT tag_id FROM "_post_tags" WHERE "tag_id" IN ($1) LIMIT $2`, query.SQL)
		assert.Equal(t, []interface{}{int64(5), 1}, query.Args)
	})
}

func TestDeleteMany(t *testing.T) {
	user, post, _ := blogSchema(t)
	b := NewWriteBuilder("postgres")

	t.Run("NoJunctionRelations", func(t *testing.T) {
		queries, err := b.DeleteMany(user, []record.ID{int64(1)})
		require.NoError(t, err)
		require.Len(t, queries, 1)
		assert.Equal(t, `DELETE FROM "users" WHERE "id" IN ($1)`, queries[0].SQL)
		assert.Equal(t, []interface{}{int64(1)}, queries[0].Args)
	})

	t.Run("JunctionRowsFirst", func(t *testing.T) {
		queries, err := b.DeleteMany(post, []record.ID{int64(7), int64(8)})
		require.NoError(t, err)
		require.Len(t, queries, 2)
		assert.Equal(t, `DELETE FROM "_post_tags" WHERE "post_id" IN ($1, $2)`, queries[0].SQL)
		assert.Equal(t, `DELETE FROM "posts" WHERE "id" IN ($1, $2)`, queries[1].SQL)
	})
}

func TestProviderPlaceholders(t *testing.T) {
	user, _, _ := blogSchema(t)

	b := NewWriteBuilder("mysql")
	query := b.SelectByFinder(record.NewFinder(user, "email", "ada@example.com"), []string{"id"})
	assert.Equal(t, "SELECT id FROM `users` WHERE `email` = ? LIMIT ?", query.SQL)

	b = NewWriteBuilder("sqlite")
	query = b.SelectByFinder(record.NewFinder(user, "email", "ada@example.com"), []string{"id"})
	assert.Equal(t, `SELECT id FROM "users" WHERE "email" = ? LIMIT ?`, query.SQL)
}
