// internal/model/content.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// DimensionTag は「人生の領域」を表す固定の語彙
type DimensionTag string

const (
	DimensionGeneric       DimensionTag = "generic"
	DimensionHealth        DimensionTag = "health"
	DimensionCareer        DimensionTag = "career"
	DimensionFinance       DimensionTag = "finance"
	DimensionRelationships DimensionTag = "relationships"
	DimensionGrowth        DimensionTag = "growth"
	DimensionMindset       DimensionTag = "mindset"
	DimensionFamily        DimensionTag = "family"
	DimensionRecreation    DimensionTag = "recreation"
)

// Dimensions は generic 以外の有効な領域タグ
var Dimensions = []DimensionTag{
	DimensionHealth,
	DimensionCareer,
	DimensionFinance,
	DimensionRelationships,
	DimensionGrowth,
	DimensionMindset,
	DimensionFamily,
	DimensionRecreation,
}

// IsValidDimension は tag が generic を含む既知のタグかどうかを返します。
func IsValidDimension(tag DimensionTag) bool {
	if tag == DimensionGeneric {
		return true
	}
	for _, d := range Dimensions {
		if d == tag {
			return true
		}
	}
	return false
}

// InterventionThreshold 以上の重みを持つタグ付きコンテンツが「介入」コンテンツ
const InterventionThreshold = 50

// ContentItem はマインドセットフィードのカード (名言など)
type ContentItem struct {
	ContentID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"content_id"`
	DimensionTag       DimensionTag `gorm:"type:varchar(32);not null;index" json:"dimension_tag"`
	InterventionWeight int          `gorm:"not null;default:0" json:"intervention_weight"`
	Text               string       `gorm:"not null;uniqueIndex" json:"text"`
	Author             string       `json:"author,omitempty"`
	CreatedAt          time.Time    `json:"-"`
	UpdatedAt          time.Time    `json:"-"`
}

func (ContentItem) TableName() string {
	return "content_items"
}

// IsIntervention はサンプリング上「介入」コンテンツとして扱うかどうか
func (c ContentItem) IsIntervention() bool {
	return c.DimensionTag != DimensionGeneric && c.InterventionWeight >= InterventionThreshold
}

// FeedSession はユーザーごとの一時的なフィード状態 (永続化しない)
type FeedSession struct {
	UserID  uuid.UUID     `json:"user_id"`
	Items   []ContentItem `json:"items"`
	Cursor  int           `json:"cursor"`
	WeakKey string        `json:"weak_key"`
}

// FeedResponse はフィード一覧のレスポンスDTO
type FeedResponse struct {
	Items []ContentItem `json:"items"`
}

// FeedItemResponse は次のフィードカードのレスポンスDTO
type FeedItemResponse struct {
	Item        *ContentItem `json:"item"`
	Position    int          `json:"position"`
	FeedLength  int          `json:"feed_length"`
	Regenerated bool         `json:"regenerated"`
}
