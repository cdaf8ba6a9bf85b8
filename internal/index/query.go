package index

import (
	"encoding/json"
	"errors"
	bolt "go.etcd.io/bbolt"
	"gmi/internal/domain/ghost"
	"strings"
)

var ErrNotFound = errors.New("not found")

type TagCount struct {
	Tag   ghost.Tag
	Posts int
}

type Stats struct {
	Meta  ghost.Meta
	Posts int
	Tags  int
	Users int
}

func (s *Store) GetPost(slug string) (ghost.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ghost.Post{}, ErrNotFound
	}
	var p ghost.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bPostSlug)
		posts := tx.Bucket(bPosts)
		if idx == nil || posts == nil {
			return ErrNotFound
		}
		k := idx.Get([]byte(slug))
		if k == nil {
			return ErrNotFound
		}
		v := posts.Get(k)
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &p)
	})
	return p, err
}

// ListPosts returns every post in id order.
func (s *Store) ListPosts() ([]ghost.Post, error) {
	var out []ghost.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bPosts)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var p ghost.Post
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	})
	return out, err
}

// ListTags returns every tag in id order with the number of posts linked to it.
func (s *Store) ListTags() ([]TagCount, error) {
	var out []TagCount
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bTags)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e tagEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			out = append(out, TagCount{Tag: e.Tag, Posts: e.Posts})
			return nil
		})
	})
	return out, err
}

func (s *Store) ListUsers() ([]ghost.User, error) {
	var out []ghost.User
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bUsers)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var u ghost.User
			if err := json.Unmarshal(v, &u); err != nil {
				return err
			}
			out = append(out, u)
			return nil
		})
	})
	return out, err
}

// ListByTag returns the posts linked to tags with the given slug, in id order.
func (s *Store) ListByTag(tagSlug string) ([]ghost.Post, error) {
	return s.listLinked(bIdxTag, tagSlug)
}

// ListByAuthor returns the posts linked to users with the given slug, in id order.
func (s *Store) ListByAuthor(userSlug string) ([]ghost.Post, error) {
	return s.listLinked(bIdxAuthor, userSlug)
}

func (s *Store) listLinked(bucket []byte, name string) ([]ghost.Post, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var out []ghost.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bucket)
		posts := tx.Bucket(bPosts)
		if parent == nil || posts == nil {
			return nil
		}
		sb := parent.Bucket([]byte(name))
		if sb == nil {
			return nil
		}
		cur := sb.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			if _, _, ok := splitPostKey(k); !ok {
				continue
			}
			v := posts.Get(k)
			if v == nil {
				continue
			}
			var p ghost.Post
			if err := json.Unmarshal(v, &p); err != nil {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.db.View(func(tx *bolt.Tx) error {
		mb := tx.Bucket(bMeta)
		if mb == nil {
			return ErrNotFound
		}
		v := mb.Get(metaKey)
		if v == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(v, &st.Meta); err != nil {
			return err
		}
		st.Posts = count(tx.Bucket(bPosts))
		st.Tags = count(tx.Bucket(bTags))
		st.Users = count(tx.Bucket(bUsers))
		return nil
	})
	return st, err
}

func count(b *bolt.Bucket) int {
	if b == nil {
		return 0
	}
	return b.Stats().KeyN
}
