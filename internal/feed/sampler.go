// Package feed はマインドセットフィードのサンプリングを行います。
package feed

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
)

// Sampler は介入コンテンツと汎用コンテンツを比率に従って混ぜたフィードを作る。
// 乱数源は外から渡す (テストではシードを固定する)。
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler は src を乱数源とする Sampler を返します。
func NewSampler(src rand.Source) *Sampler {
	return &Sampler{rng: rand.New(src)}
}

// BuildFeed は pool から最大 size 件のフィードを作成します。
// 介入コンテンツは weak に含まれる領域のものを優先し、足りない分は他の介入コンテンツで補う。
// 汎用コンテンツの不足は補わないため、プールが少ない場合は size より短くなる。
func (s *Sampler) BuildFeed(pool []model.ContentItem, weak []model.DimensionTag, ratio float64, size int) ([]model.ContentItem, error) {
	if ratio < 0 || ratio > 1 {
		return nil, fmt.Errorf("intervention ratio must be within [0,1], got %v: %w", ratio, model.ErrInvalidInput)
	}
	if size < 0 {
		return nil, fmt.Errorf("feed size must not be negative, got %d: %w", size, model.ErrInvalidInput)
	}
	if size == 0 || len(pool) == 0 {
		return []model.ContentItem{}, nil
	}

	weakSet := make(map[model.DimensionTag]bool, len(weak))
	for _, d := range weak {
		weakSet[d] = true
	}

	var targeted, otherIntervention, generic []model.ContentItem
	seen := make(map[uuid.UUID]bool, len(pool))
	for _, item := range pool {
		if seen[item.ContentID] {
			continue
		}
		seen[item.ContentID] = true
		switch {
		case !item.IsIntervention():
			generic = append(generic, item)
		case weakSet[item.DimensionTag]:
			targeted = append(targeted, item)
		default:
			otherIntervention = append(otherIntervention, item)
		}
	}

	interventionCount := int(float64(size) * ratio)
	genericCount := size - interventionCount

	s.mu.Lock()
	defer s.mu.Unlock()

	s.shuffle(targeted)
	picked := take(targeted, interventionCount)
	if shortfall := interventionCount - len(picked); shortfall > 0 {
		s.shuffle(otherIntervention)
		picked = append(picked, take(otherIntervention, shortfall)...)
	}

	s.shuffle(generic)
	picked = append(picked, take(generic, genericCount)...)

	s.shuffle(picked)
	return picked, nil
}

func (s *Sampler) shuffle(items []model.ContentItem) {
	s.rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
}

func take(items []model.ContentItem, n int) []model.ContentItem {
	if n > len(items) {
		n = len(items)
	}
	out := make([]model.ContentItem, n)
	copy(out, items[:n])
	return out
}

// WeakKey は弱い領域の集合を順序に依存しない文字列にします。
// フィードの再生成が必要かどうかの比較に使う。
func WeakKey(weak []model.DimensionTag) string {
	uniq := make(map[string]bool, len(weak))
	keys := make([]string, 0, len(weak))
	for _, d := range weak {
		k := string(d)
		if uniq[k] {
			continue
		}
		uniq[k] = true
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
