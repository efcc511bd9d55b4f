// Copyright 2023-2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package portfolio

import (
	"github.com/rs/zerolog"
)

func (w WeightVector) MarshalZerologObject(e *zerolog.Event) {
	for _, asset := range w.Assets() {
		e.Float64(asset, w[asset])
	}
}

func (point *FrontierPoint) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("Return", point.Return).Float64("Volatility", point.Volatility).Object("Weights", point.Weights)
}
