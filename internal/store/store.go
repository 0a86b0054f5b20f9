// Package store keeps slicing results in a bbolt resource file.
package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	codec "github.com/alacrity-engine/resource-codec"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/alacrity-engine/sheet-slicer/internal/resolve"
	"github.com/alacrity-engine/sheet-slicer/internal/slicing"
)

// Bucket names of the resource file.
var (
	bucketSlices     = []byte("slices")
	bucketSecondary  = []byte("secondary")
	bucketAnimations = []byte("animations")
	bucketTags       = []byte("tags")
	bucketBatches    = []byte("batches")
)

// Store is a resource file holding slice sets,
// secondary texture pairings, animations and tags.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the resource file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0666, &bolt.Options{Timeout: time.Second})

	if err != nil {
		return nil, errors.Wrapf(err, "open resource file %q", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{
			bucketSlices, bucketSecondary, bucketAnimations,
			bucketTags, bucketBatches,
		} {
			_, err := tx.CreateBucketIfNotExists(name)

			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create buckets")
	}

	return &Store{db: db}, nil
}

// Close closes the resource file.
func (s *Store) Close() error {
	return s.db.Close()
}

func slicesKey(descID, image string) []byte {
	return []byte(filepath.ToSlash(descID) + "\x00" + filepath.ToSlash(image))
}

func (s *Store) getJSON(bucket, key []byte, value interface{}) (bool, error) {
	found := false

	err := s.db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucket)

		if buck == nil {
			return fmt.Errorf("the %s bucket not found", bucket)
		}

		data := buck.Get(key)

		if data == nil {
			return nil
		}

		found = true

		return json.Unmarshal(data, value)
	})

	return found, err
}

func (s *Store) putJSON(bucket, key []byte, value interface{}) error {
	data, err := json.Marshal(value)

	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucket)

		if buck == nil {
			return fmt.Errorf("the %s bucket not found", bucket)
		}

		return buck.Put(key, data)
	})
}

// Slices returns the slice set stored for the image
// of the description, or nil if there is none.
func (s *Store) Slices(descID, image string) (*slicing.SliceSet, error) {
	set := &slicing.SliceSet{}
	found, err := s.getJSON(bucketSlices, slicesKey(descID, image), set)

	if err != nil {
		return nil, errors.Wrapf(err, "read slices of %q", image)
	}

	if !found {
		return nil, nil
	}

	return set, nil
}

// PutSlices stores the slice set of the image.
func (s *Store) PutSlices(descID, image string, set *slicing.SliceSet) error {
	err := s.putJSON(bucketSlices, slicesKey(descID, image), set)
	return errors.Wrapf(err, "write slices of %q", image)
}

// Secondary returns the secondary textures paired with the
// primary image. The flag is false if nothing was stored.
func (s *Store) Secondary(image string) ([]resolve.SecondaryTexture, bool, error) {
	var textures []resolve.SecondaryTexture
	found, err := s.getJSON(bucketSecondary, []byte(filepath.ToSlash(image)), &textures)

	if err != nil {
		return nil, false, errors.Wrapf(err, "read secondary textures of %q", image)
	}

	return textures, found, nil
}

// PutSecondary stores the secondary textures of the primary image.
func (s *Store) PutSecondary(image string, textures []resolve.SecondaryTexture) error {
	if textures == nil {
		textures = []resolve.SecondaryTexture{}
	}

	err := s.putJSON(bucketSecondary, []byte(filepath.ToSlash(image)), textures)
	return errors.Wrapf(err, "write secondary textures of %q", image)
}

// PutAnimation encodes and stores an animation under key.
func (s *Store) PutAnimation(key string, anim *codec.AnimationData) error {
	data, err := anim.ToBytes()

	if err != nil {
		return errors.Wrapf(err, "encode animation %q", key)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucketAnimations)

		if buck == nil {
			return fmt.Errorf("the animations bucket not found")
		}

		return buck.Put([]byte(key), data)
	})

	return errors.Wrapf(err, "write animation %q", key)
}

// Animation returns the encoded animation stored under key, or nil.
func (s *Store) Animation(key string) ([]byte, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucketAnimations)

		if buck == nil {
			return fmt.Errorf("the animations bucket not found")
		}

		if value := buck.Get([]byte(key)); value != nil {
			data = append([]byte(nil), value...)
		}

		return nil
	})

	return data, err
}

// PutTags adds the animation names of every tag
// to the names already stored under it.
func (s *Store) PutTags(tags map[string][]string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucketTags)

		if buck == nil {
			return fmt.Errorf("no tags bucket present")
		}

		for tagID, tag := range tags {
			if stored := buck.Get([]byte(tagID)); stored != nil {
				existing, err := codec.DecodeTag(stored)

				if err != nil {
					return errors.Wrapf(err, "decode tag %q", tagID)
				}

				tag = mergeTag(existing, tag)
			}

			tagData, err := codec.EncodeTag(tag)

			if err != nil {
				return errors.Wrapf(err, "encode tag %q", tagID)
			}

			err = buck.Put([]byte(tagID), tagData)

			if err != nil {
				return err
			}
		}

		return nil
	})
}

// mergeTag appends the names of added missing from existing.
func mergeTag(existing, added []string) []string {
	merged := append([]string(nil), existing...)
	seen := make(map[string]struct{}, len(existing)+len(added))

	for _, name := range existing {
		seen[name] = struct{}{}
	}

	for _, name := range added {
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		merged = append(merged, name)
	}

	return merged
}

// Tag returns the animation names stored under the tag,
// or nil if there is no such tag.
func (s *Store) Tag(tagID string) ([]string, error) {
	var tag []string

	err := s.db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucketTags)

		if buck == nil {
			return fmt.Errorf("no tags bucket present")
		}

		data := buck.Get([]byte(tagID))

		if data == nil {
			return nil
		}

		var err error
		tag, err = codec.DecodeTag(data)

		return errors.Wrapf(err, "decode tag %q", tagID)
	})

	return tag, err
}

// HasTag reports whether a tag is stored.
func (s *Store) HasTag(tagID string) (bool, error) {
	found := false

	err := s.db.View(func(tx *bolt.Tx) error {
		buck := tx.Bucket(bucketTags)

		if buck == nil {
			return fmt.Errorf("no tags bucket present")
		}

		found = buck.Get([]byte(tagID)) != nil

		return nil
	})

	return found, err
}

// BatchRecord summarizes one processing run.
type BatchRecord struct {
	Started      time.Time `json:"started"`
	Finished     time.Time `json:"finished"`
	Descriptions []string  `json:"descriptions"`
	Failed       []string  `json:"failed,omitempty"`
}

// RecordBatch stores the summary of a run.
func (s *Store) RecordBatch(id uuid.UUID, record BatchRecord) error {
	err := s.putJSON(bucketBatches, []byte(id.String()), record)
	return errors.Wrapf(err, "record batch %s", id)
}

// Batch returns the summary of a run, or nil.
func (s *Store) Batch(id uuid.UUID) (*BatchRecord, error) {
	record := &BatchRecord{}
	found, err := s.getJSON(bucketBatches, []byte(id.String()), record)

	if err != nil || !found {
		return nil, err
	}

	return record, nil
}
