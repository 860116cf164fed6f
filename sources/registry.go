// Copyright 2025 Poiesic Systems
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


package sources

import (
	"fmt"
	"strings"
)

// Default returns the built-in adapters in registration order, all sharing client.
func Default(client *Client) []Adapter {
	adapters := []Adapter{
		NewLexica(client),
		NewCivitai(client),
	}
	for _, sub := range DefaultSubreddits {
		adapters = append(adapters, NewReddit(client, sub))
	}
	return append(adapters,
		NewPromptHero(client),
		NewOpenArt(client),
		NewGhauseditz(client),
	)
}

// Names returns the name of every adapter.
func Names(adapters []Adapter) []string {
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.Name()
	}
	return names
}

// Select returns the adapters matching names, preserving the order of adapters.
// A name matches an adapter exactly or as a family prefix, so "reddit" selects
// every "reddit/<sub>" adapter. No names selects everything. A name matching
// nothing yields ErrUnknownSource.
func Select(adapters []Adapter, names ...string) ([]Adapter, error) {
	if len(names) == 0 {
		return adapters, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found := false
		for _, a := range adapters {
			if matches(a.Name(), name) {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
		}
		wanted[name] = true
	}

	var selected []Adapter
	for _, a := range adapters {
		for name := range wanted {
			if matches(a.Name(), name) {
				selected = append(selected, a)
				break
			}
		}
	}
	return selected, nil
}

func matches(adapterName, name string) bool {
	return adapterName == name || strings.HasPrefix(adapterName, name+"/")
}
