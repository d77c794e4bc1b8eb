// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import (
	"errors"
	"testing"
)

func TestConfigDecode(t *testing.T) {
	cfg, err := Config([]byte("kind: octree\nresolution: 128\ncapacity: 1000\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Kind != KindOctree || cfg.Resolution != 128 || cfg.Capacity != 1000 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestConfigBadKind(t *testing.T) {
	if _, err := Config([]byte("kind: kdtree\n")); err == nil {
		t.Fatal("expected an error for an unsupported tree kind")
	}
}

func TestConfigBadResolution(t *testing.T) {
	_, err := Config([]byte("kind: octree\nresolution: 100\n"))
	if !errors.Is(err, ErrBadResolution) {
		t.Fatalf("expected ErrBadResolution, got %v", err)
	}
}

func TestConfigBadYaml(t *testing.T) {
	if _, err := Config([]byte("kind: [unclosed")); err == nil {
		t.Fatal("expected a yaml decode error")
	}
}

func TestCreateFromConfigAllKinds(t *testing.T) {
	docs := []string{
		"kind: octree\nresolution: 64\ncapacity: 8\n",
		"kind: bvh\ncapacity: 8\n",
		"kind: vbvh\ncapacity: 8\n",
		"kind: svbvh\ncapacity: 8\n",
		"kind: bih\ncapacity: 8\n",
		"kind: libbvh\ncapacity: 8\n",
	}
	for _, doc := range docs {
		cfg, err := Config([]byte(doc))
		if err != nil {
			t.Fatalf("%q: %v", doc, err)
		}
		tree, err := CreateFromConfig(cfg)
		if err != nil {
			t.Fatalf("%q: %v", doc, err)
		}
		Add(tree, HandleFor(quadAt(0, 0, 1, 1, 0)))
		if err := Done(tree, nil); err != nil {
			t.Fatalf("%q: %v", doc, err)
		}
		r := rayDownZ(0, 0, 0)
		if !Raycast(tree, r) {
			t.Errorf("%q: expected the configured tree to trace", doc)
		}
	}
}
