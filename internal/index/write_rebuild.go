package index

import (
	"encoding/json"
	"errors"
	bolt "go.etcd.io/bbolt"
	"gmi/internal/domain/ghost"
)

type tagEntry struct {
	Tag   ghost.Tag `json:"tag"`
	Posts int       `json:"posts"`
}

// Rebuild replaces the whole store with imp in a single transaction.
func (s *Store) Rebuild(imp ghost.Import) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		b := make(map[string]*bolt.Bucket, len(allBuckets))
		for _, name := range allBuckets {
			bk, err := tx.CreateBucket(name)
			if err != nil {
				return err
			}
			b[string(name)] = bk
		}

		if err := putJSON(b[string(bMeta)], metaKey, imp.Meta); err != nil {
			return err
		}

		data := imp.Data
		postKeys := make(map[int][]byte, len(data.Posts))
		for _, p := range data.Posts {
			k := makePostKey(p.ID, p.Slug)
			postKeys[p.ID] = k
			if err := putJSON(b[string(bPosts)], k, p); err != nil {
				return err
			}
			if p.Slug == "" || b[string(bPostSlug)].Get([]byte(p.Slug)) != nil {
				continue
			}
			if err := b[string(bPostSlug)].Put([]byte(p.Slug), k); err != nil {
				return err
			}
		}

		tagPosts := make(map[int]map[int]struct{})
		tagSlugs := make(map[int]string, len(data.Tags))
		for _, t := range data.Tags {
			tagSlugs[t.ID] = t.Slug
		}
		for _, pt := range data.PostsTags {
			if postKeys[pt.PostID] == nil {
				continue
			}
			if tagPosts[pt.TagID] == nil {
				tagPosts[pt.TagID] = make(map[int]struct{})
			}
			tagPosts[pt.TagID][pt.PostID] = struct{}{}
			if err := link(b[string(bIdxTag)], tagSlugs[pt.TagID], postKeys[pt.PostID]); err != nil {
				return err
			}
		}
		for _, t := range data.Tags {
			if err := putJSON(b[string(bTags)], idKey(t.ID), tagEntry{Tag: t, Posts: len(tagPosts[t.ID])}); err != nil {
				return err
			}
		}

		userSlugs := make(map[int]string, len(data.Users))
		for _, u := range data.Users {
			userSlugs[u.ID] = u.Slug
			if err := putJSON(b[string(bUsers)], idKey(u.ID), u); err != nil {
				return err
			}
		}
		for _, pa := range data.PostsAuthors {
			if err := link(b[string(bIdxAuthor)], userSlugs[pa.AuthorID], postKeys[pa.PostID]); err != nil {
				return err
			}
		}
		return nil
	})
}

func link(parent *bolt.Bucket, name string, postKey []byte) error {
	// 悬空的 join 行直接忽略
	if name == "" || postKey == nil {
		return nil
	}
	sb, err := parent.CreateBucketIfNotExists([]byte(name))
	if err != nil {
		return err
	}
	return sb.Put(postKey, []byte{1})
}

func putJSON(b *bolt.Bucket, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, raw)
}
