package models

import (
	"encoding/json"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bokjinews/blog/internal/utils/functional"
	"github.com/bokjinews/blog/internal/utils/stringutils"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Post is the normalized article shape produced by the resolution layer,
// regardless of whether the data came from the database or a content file.
type Post struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Date        string  `json:"date,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	Image       string  `json:"image,omitempty"`
	Label       string  `json:"label,omitempty"`
	Author      string  `json:"author,omitempty"`
	Category    string  `json:"category,omitempty"`
	SubCategory string  `json:"subCategory,omitempty"`
	Status      string  `json:"status,omitempty"`
	Featured    bool    `json:"featured,omitempty"`
	Tags        TagList `json:"tags,omitempty"`
}

// Frontmatter carries the editable header fields of a post, both in the
// save/read API payloads and in the header block of content files.
type Frontmatter struct {
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Date        string  `json:"date,omitempty" yaml:"date,omitempty"`
	Summary     string  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Image       string  `json:"image,omitempty" yaml:"image,omitempty"`
	Label       string  `json:"label,omitempty" yaml:"label,omitempty"`
	Author      string  `json:"author,omitempty" yaml:"author,omitempty"`
	Category    string  `json:"category,omitempty" yaml:"category,omitempty"`
	SubCategory string  `json:"subCategory,omitempty" yaml:"subCategory,omitempty"`
	Status      string  `json:"status,omitempty" yaml:"status,omitempty"`
	Featured    bool    `json:"featured,omitempty" yaml:"featured,omitempty"`
	Tags        TagList `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// TagList accepts tags either as a list or as a single comma-separated
// string (the authoring form submits the latter). Entries are trimmed and
// empty entries dropped; duplicates are preserved as given.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*t = SplitTags(asString)
		return nil
	}

	var asList []string
	if err := json.Unmarshal(data, &asList); err != nil {
		return err
	}
	*t = TrimTags(asList)
	return nil
}

func (t *TagList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var asString string
		if err := value.Decode(&asString); err != nil {
			return err
		}
		*t = SplitTags(asString)
		return nil
	}

	var asList []string
	if err := value.Decode(&asList); err != nil {
		return err
	}
	*t = TrimTags(asList)
	return nil
}

// SplitTags splits a comma-separated tag string, trimming each entry and
// dropping empty ones.
func SplitTags(s string) TagList {
	return TagList(stringutils.SplitAndTrim(s, ","))
}

// TrimTags trims every entry and drops empty ones. Duplicates are kept.
func TrimTags(list []string) TagList {
	trimmed := functional.Map(list, strings.TrimSpace)
	return TagList(functional.Filter(trimmed, func(tag string) bool {
		return tag != ""
	}))
}

// Profile is the account shape returned by the admin user-management API.
type Profile struct {
	ID                  int64      `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Role                string     `json:"role"`
	ApprovalStatus      string     `json:"approval_status"`
	ApprovalRequestedAt time.Time  `json:"approval_requested_at"`
	ApprovalProcessedAt *time.Time `json:"approval_processed_at,omitempty"`
	ApprovalProcessedBy *int64     `json:"approval_processed_by,omitempty"`
}
