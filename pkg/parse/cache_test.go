// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package parse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/graphkit/pkg/lang"
	"github.com/kraklabs/graphkit/pkg/parse"
)

func TestASTCacheEvictsLeastRecentlyUsed(t *testing.T) {
	host := parse.NewHost()
	cache := parse.NewASTCache(3)

	ta, err := host.Parse(context.Background(), lang.Go, "a.go", []byte("package main\nfunc a() {}\n"))
	require.NoError(t, err)
	tb, err := host.Parse(context.Background(), lang.Go, "b.go", []byte("package main\nfunc b() {}\n"))
	require.NoError(t, err)
	tc, err := host.Parse(context.Background(), lang.Go, "c.go", []byte("package main\nfunc c() {}\n"))
	require.NoError(t, err)
	td, err := host.Parse(context.Background(), lang.Go, "d.go", []byte("package main\nfunc d() {}\n"))
	require.NoError(t, err)

	cache.Put("a.go", ta)
	cache.Put("b.go", tb)
	cache.Put("c.go", tc)
	cache.Put("d.go", td)

	_, ok := cache.Get("a.go")
	require.False(t, ok, "a.go should have been evicted")
	require.Equal(t, 3, cache.Len())
}

func TestASTCacheTouchProtectsFromEviction(t *testing.T) {
	host := parse.NewHost()
	cache := parse.NewASTCache(3)

	ta, err := host.Parse(context.Background(), lang.Go, "a.go", []byte("package main\nfunc a() {}\n"))
	require.NoError(t, err)
	tb, err := host.Parse(context.Background(), lang.Go, "b.go", []byte("package main\nfunc b() {}\n"))
	require.NoError(t, err)
	tc, err := host.Parse(context.Background(), lang.Go, "c.go", []byte("package main\nfunc c() {}\n"))
	require.NoError(t, err)
	td, err := host.Parse(context.Background(), lang.Go, "d.go", []byte("package main\nfunc d() {}\n"))
	require.NoError(t, err)

	cache.Put("a.go", ta)
	cache.Put("b.go", tb)
	cache.Put("c.go", tc)
	cache.Get("a.go") // touch a, making b the least-recently-used
	cache.Put("d.go", td)

	_, aOK := cache.Get("a.go")
	_, bOK := cache.Get("b.go")
	require.True(t, aOK, "a.go was touched and should survive")
	require.False(t, bOK, "b.go should have been evicted")
}

func TestASTCacheGetMissAfterEviction(t *testing.T) {
	cache := parse.NewASTCache(1)
	host := parse.NewHost()
	ta, err := host.Parse(context.Background(), lang.Go, "a.go", []byte("package main\nfunc a() {}\n"))
	require.NoError(t, err)
	tb, err := host.Parse(context.Background(), lang.Go, "b.go", []byte("package main\nfunc b() {}\n"))
	require.NoError(t, err)

	cache.Put("a.go", ta)
	cache.Put("b.go", tb)

	_, ok := cache.Get("a.go")
	require.False(t, ok)
}
