// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import "testing"

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}

	av := GetAvailableLocales()
	for _, k := range []string{"en", "zh"} {
		if _, ok := av[k]; !ok {
			t.Fatalf("expected available locale %q to be present", k)
		}
	}
	if av["zh"] != "简体中文" {
		t.Fatalf("unexpected display name for zh: %q", av["zh"])
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")

	if got := T("menu.install"); got != "Install proxy" {
		t.Fatalf("expected 'Install proxy', got %q", got)
	}

	// fmt-style formatting via variadic args
	if got := T("install.done", 8234); got != "Installed. Listening on port 8234." {
		t.Fatalf("unexpected formatted translation: %q", got)
	}

	// unknown IDs fall back to the ID itself
	if got := T("no.such.key"); got != "no.such.key" {
		t.Fatalf("expected fallback to message ID, got %q", got)
	}

	SetLang("zh")
	if GetLang() != "zh" {
		t.Fatalf("expected lang 'zh', got %q", GetLang())
	}
	if got := T("menu.exit"); got != "退出" {
		t.Fatalf("expected Chinese exit label, got %q", got)
	}

	SetLang("en")
}
