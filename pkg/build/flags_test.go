// SPDX-License-Identifier: MIT
package build

import "testing"

func TestGetDefaults(t *testing.T) {
	origName, origVersion := name, version
	origCommit, origDate := commit, date
	t.Cleanup(func() {
		name, version, commit, date = origName, origVersion, origCommit, origDate
	})

	name, version, commit, date = "", "", "", ""
	info := Get()
	if info.Name != "freqdetect" {
		t.Errorf("Name = %q, want freqdetect", info.Name)
	}
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.Commit != "unknown" || info.Date != "unknown" {
		t.Errorf("Commit/Date = %q/%q, want unknown/unknown", info.Commit, info.Date)
	}
}

func TestGetLinkerValues(t *testing.T) {
	origName, origVersion := name, version
	origCommit, origDate := commit, date
	t.Cleanup(func() {
		name, version, commit, date = origName, origVersion, origCommit, origDate
	})

	name, version, commit, date = "tool", "v1.2.3", "abc123", "2026-01-02"
	info := Get()
	if info.Name != "tool" || info.Version != "v1.2.3" || info.Commit != "abc123" || info.Date != "2026-01-02" {
		t.Errorf("unexpected info: %+v", info)
	}
}
