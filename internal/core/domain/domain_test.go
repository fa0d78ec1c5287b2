package domain

import (
	"encoding/json"
	"testing"
)

const (
	errHashtagsEnabledFmt = "HashtagsEnabled() = %v, want %v"
	errMaxTweetsFmt       = "MaxTweets = %d, want %d"
)

func TestNormalizeDefaultsHashtagsOn(t *testing.T) {
	var opts Options
	if err := json.Unmarshal([]byte(`{"style":"educational","max_tweets":3}`), &opts); err != nil {
		t.Fatalf("unmarshal options: %v", err)
	}

	opts = opts.Normalize()

	if !opts.HashtagsEnabled() {
		t.Errorf(errHashtagsEnabledFmt, false, true)
	}

	if opts.IncludeHashtags == nil || !*opts.IncludeHashtags {
		t.Error("Normalize() left IncludeHashtags unset")
	}

	if opts.MaxTweets != 3 {
		t.Errorf(errMaxTweetsFmt, opts.MaxTweets, 3)
	}
}

func TestNormalizeKeepsHashtagsOff(t *testing.T) {
	var opts Options
	if err := json.Unmarshal([]byte(`{"include_hashtags":false}`), &opts); err != nil {
		t.Fatalf("unmarshal options: %v", err)
	}

	opts = opts.Normalize()

	if opts.HashtagsEnabled() {
		t.Errorf(errHashtagsEnabledFmt, true, false)
	}
}

func TestNormalizeClampsMaxTweets(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero gets default", 0, DefaultThreadLength},
		{"below minimum", -3, MinThreadLength},
		{"above maximum", 99, MaxThreadLength},
		{"in range untouched", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Options{MaxTweets: tt.in}.Normalize()

			if got.MaxTweets != tt.want {
				t.Errorf(errMaxTweetsFmt, got.MaxTweets, tt.want)
			}
		})
	}
}
