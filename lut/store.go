/*
Copyright © 2024 the SYNAER authors.
This file is part of SYNAER.

SYNAER is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SYNAER is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SYNAER.  If not, see <http://www.gnu.org/licenses/>.
*/

package lut

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/ctessum/requestcache"
)

// Loader loads the tables of the aerosol model with the given identifier.
type Loader func(ctx context.Context, id int) (*Model, error)

// FileLoader returns a Loader that reads models from NetCDF files whose
// paths are created by replacing "[model]" in template with the model
// identifier.
func FileLoader(template string) Loader {
	return func(ctx context.Context, id int) (*Model, error) {
		m, err := ReadModelFile(strings.Replace(template, "[model]", strconv.Itoa(id), -1))
		if err != nil {
			return nil, err
		}
		if m.ID != id {
			return nil, fmt.Errorf("lut: file for model %d holds model %d", id, m.ID)
		}
		return m, nil
	}
}

// Store lazily loads aerosol models and keeps the most recently used ones
// in memory. Concurrent requests for the same model are loaded only once.
// Models returned by a Store are shared and must not be modified.
type Store struct {
	cache *requestcache.Cache
}

// NewStore creates a Store that loads models with load and keeps up to
// cacheSize of them in memory.
func NewStore(load Loader, cacheSize int) *Store {
	if cacheSize < 1 {
		cacheSize = 1
	}
	return &Store{
		cache: requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			return load(ctx, request.(int))
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(cacheSize)),
	}
}

// Model returns the aerosol model with the given identifier.
func (s *Store) Model(ctx context.Context, id int) (*Model, error) {
	req := s.cache.NewRequest(ctx, id, fmt.Sprintf("model_%d", id))
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(*Model), nil
}

// Models returns the aerosol models with the given identifiers, in order.
func (s *Store) Models(ctx context.Context, ids ...int) ([]*Model, error) {
	models := make([]*Model, len(ids))
	for i, id := range ids {
		m, err := s.Model(ctx, id)
		if err != nil {
			return nil, err
		}
		models[i] = m
	}
	return models, nil
}
