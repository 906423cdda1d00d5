package kvstore

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is the single-table layout backing the store. One row per key,
// the whole JSON document in one column.
type Document struct {
	Key   string         `gorm:"primaryKey;size:512"`
	Value datatypes.JSON `gorm:"not null"`
}

func (Document) TableName() string {
	return "documents"
}

// Gorm is a Store backed by a relational database through GORM.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) Get(key string) (json.RawMessage, error) {
	var doc Document
	err := s.db.Where("key = ?", key).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(doc.Value), nil
}

func (s *Gorm) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	doc := Document{Key: key, Value: datatypes.JSON(raw)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&doc).Error
}

func (s *Gorm) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&Document{}).Error
}

func (s *Gorm) ScanPrefix(prefix string) ([]json.RawMessage, error) {
	var docs []Document
	err := s.db.Where(`key LIKE ? ESCAPE '\'`, likeEscape(prefix)+"%").Order("key ASC").Find(&docs).Error
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		out = append(out, json.RawMessage(d.Value))
	}
	return out, nil
}

// likeEscape neutralizes LIKE wildcards in the prefix so a key such as
// "gallery:a_b:" cannot match unrelated rows.
func likeEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
