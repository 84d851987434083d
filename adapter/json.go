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

package adapter

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"dirpx.dev/fixture/apis"
	"dirpx.dev/fixture/config"
)

// JSON returns an adapter that marshals attrs to JSON and unmarshals the
// document into a copy of the model. Field names follow the json tags of R
// regardless of config.WithFieldTag. With config.WithErrorUnused, unknown
// keys fail the build.
func JSON[R any](opts ...config.Option) apis.Adapter[R] {
	return &jsonAdapter[R]{cfg: config.NewConfig(opts...)}
}

type jsonAdapter[R any] struct {
	cfg apis.Config
}

// Set implements apis.Adapter.
func (a *jsonAdapter[R]) Set(model R, attrs apis.Attrs) (R, error) {
	data, err := json.Marshal(attrs)
	if err != nil {
		return model, fmt.Errorf("fixture(adapter): encode attributes: %w", err)
	}

	out, target := prepare(model)
	dec := json.NewDecoder(bytes.NewReader(data))
	if a.cfg.ErrorUnused {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(target); err != nil {
		return model, fmt.Errorf("fixture(adapter): decode %T: %w", *out, err)
	}
	return *out, nil
}

var _ apis.Adapter[struct{}] = (*jsonAdapter[struct{}])(nil)
