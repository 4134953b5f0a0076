package service

import "time"

// Clock は現在時刻を返す。テストでは固定の時刻を渡す。
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
