package services

import (
	"testing"
	"time"
)

func TestCalendarService_IsWorkday(t *testing.T) {
	svc := NewCalendarService()

	tests := []struct {
		name    string
		date    time.Time
		country string
		want    bool
	}{
		{"US regular weekday", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), "US", true},
		{"US Saturday", time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC), "US", false},
		{"US Christmas", time.Date(2026, 12, 25, 10, 0, 0, 0, time.UTC), "US", false},
		{"GB Christmas", time.Date(2026, 12, 25, 10, 0, 0, 0, time.UTC), "GB", false},
		{"DE regular weekday", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), "DE", true},
		{"unknown country weekday", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), "ZZ", true},
		{"unknown country Sunday", time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), "ZZ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsWorkday(tt.date, tt.country); got != tt.want {
				t.Errorf("IsWorkday(%s, %s) = %v, want %v", tt.date.Format("2006-01-02"), tt.country, got, tt.want)
			}
		})
	}
}

func TestCalendarService_IsHoliday(t *testing.T) {
	svc := NewCalendarService()
	if !svc.IsHoliday(time.Date(2026, 7, 3, 10, 0, 0, 0, time.UTC), "US") {
		t.Error("observed Independence Day should not be a workday in the US")
	}
	if svc.IsHoliday(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), "US") {
		t.Error("a regular Tuesday should be a workday in the US")
	}
}
