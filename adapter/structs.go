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
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"dirpx.dev/fixture/apis"
	"dirpx.dev/fixture/config"
	"dirpx.dev/fixture/utils/merge"
)

// Struct returns an adapter that decodes attrs into a copy of the model.
//
// R may be a struct or a pointer to one; a nil pointer model is allocated.
// Fields are matched by the config.WithFieldTag tag (json by default), and
// fields absent from attrs keep the model's values. A map or slice field
// named in attrs is replaced, not merged into, so the model's own maps and
// slices are never written to. RFC 3339 strings decode
// into time.Time and duration strings into time.Duration. With
// config.WithErrorUnused, keys without a matching field fail the build.
func Struct[R any](opts ...config.Option) apis.Adapter[R] {
	return &structAdapter[R]{cfg: config.NewConfig(opts...)}
}

type structAdapter[R any] struct {
	cfg apis.Config
}

// Set implements apis.Adapter.
func (a *structAdapter[R]) Set(model R, attrs apis.Attrs) (R, error) {
	out, target := prepare(model)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     a.cfg.FieldTag,
		ErrorUnused: a.cfg.ErrorUnused,
		ZeroFields:  true,
		Result:      target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return model, err
	}
	if err := dec.Decode(map[string]any(attrs)); err != nil {
		return model, fmt.Errorf("fixture(adapter): decode %T: %w", *out, err)
	}
	return *out, nil
}

// prepare copies model into a fresh *R and returns it together with the
// pointer to decode into: out itself for struct models, *out for pointer
// models. A nil pointer model is replaced by a fresh zero value.
func prepare[R any](model R) (out *R, target any) {
	out = new(R)
	*out = merge.Copy(model)
	rv := reflect.ValueOf(out).Elem()
	if rv.Kind() != reflect.Ptr {
		return out, out
	}
	if rv.IsNil() {
		rv.Set(reflect.New(rv.Type().Elem()))
	}
	return out, rv.Interface()
}

var _ apis.Adapter[struct{}] = (*structAdapter[struct{}])(nil)
