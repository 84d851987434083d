/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config_test

import (
	"testing"

	"go.uber.org/zap"

	"dirpx.dev/fixture/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.MaxDepth != config.DefaultMaxDepth {
		t.Fatalf("MaxDepth = %d, want %d", got.MaxDepth, config.DefaultMaxDepth)
	}
	if got.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want %d", got.MaxUnwrap, config.DefaultMaxUnwrap)
	}
	if got.FieldTag != config.DefaultFieldTag {
		t.Fatalf("FieldTag = %q, want %q", got.FieldTag, config.DefaultFieldTag)
	}
	if got.ErrorUnused != config.DefaultErrorUnused {
		t.Fatalf("ErrorUnused = %v, want %v", got.ErrorUnused, config.DefaultErrorUnused)
	}
	if got.Logger == nil {
		t.Fatal("Logger = nil, want no-op logger")
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got != def {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestWithMaxDepth(t *testing.T) {
	c := config.NewConfig(config.WithMaxDepth(4))
	if c.MaxDepth != 4 {
		t.Fatalf("MaxDepth = %d, want 4", c.MaxDepth)
	}

	for _, d := range []int{0, -3} {
		c := config.NewConfig(config.WithMaxDepth(d))
		if c.MaxDepth != config.DefaultMaxDepth {
			t.Fatalf("WithMaxDepth(%d): MaxDepth = %d, want default %d", d, c.MaxDepth, config.DefaultMaxDepth)
		}
	}
}

func TestWithMaxUnwrap_Positive(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(3))
	if c.MaxUnwrap != 3 {
		t.Fatalf("MaxUnwrap = %d, want 3", c.MaxUnwrap)
	}
}

func TestWithMaxUnwrap_Negative_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(-1))
	if c.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want default %d", c.MaxUnwrap, config.DefaultMaxUnwrap)
	}
}

func TestWithFieldTag(t *testing.T) {
	c := config.NewConfig(config.WithFieldTag("mapstructure"))
	if c.FieldTag != "mapstructure" {
		t.Fatalf("FieldTag = %q, want mapstructure", c.FieldTag)
	}

	c2 := config.NewConfig(config.WithFieldTag(""))
	if c2.FieldTag != config.DefaultFieldTag {
		t.Fatalf("FieldTag = %q, want default %q", c2.FieldTag, config.DefaultFieldTag)
	}
}

func TestWithLogger(t *testing.T) {
	l := zap.NewExample()
	c := config.NewConfig(config.WithLogger(l))
	if c.Logger != l {
		t.Fatalf("Logger = %p, want %p", c.Logger, l)
	}

	c2 := config.NewConfig(config.WithLogger(nil))
	if c2.Logger != config.DefaultConfig().Logger {
		t.Fatal("WithLogger(nil) should fall back to the shared no-op logger")
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithErrorUnused(false),
		config.WithErrorUnused(true),
		config.WithMaxUnwrap(2),
		config.WithMaxUnwrap(5),
		config.WithMaxDepth(3),
		config.WithMaxDepth(7),
	)

	if !c.ErrorUnused {
		t.Errorf("ErrorUnused = %v, want true (last option wins)", c.ErrorUnused)
	}
	if c.MaxUnwrap != 5 {
		t.Errorf("MaxUnwrap = %d, want 5 (last option wins)", c.MaxUnwrap)
	}
	if c.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7 (last option wins)", c.MaxDepth)
	}
}

func TestNewConfig_Guardrails_MaxUnwrapZeroAllowed(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(0))
	if c.MaxUnwrap != 0 {
		t.Fatalf("MaxUnwrap = %d, want 0 (zero is allowed)", c.MaxUnwrap)
	}
}
