// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package raytrace

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// config.go loads a build configuration: a yaml description is decoded
// into an intermediate struct, then validated and converted into the
// real configuration type. The package itself never touches the
// filesystem; callers hand in the bytes.

// TreeKind selects which acceleration structure CreateFromConfig builds.
type TreeKind string

// Supported tree kinds, matching the Create* functions in api.go.
const (
	KindOctree TreeKind = "octree"
	KindBVH    TreeKind = "bvh"
	KindVBVH   TreeKind = "vbvh"
	KindSVBVH  TreeKind = "svbvh"
	KindBIH    TreeKind = "bih"
	KindLibBVH TreeKind = "libbvh"
)

var treeKinds = map[string]TreeKind{
	"octree": KindOctree,
	"bvh":    KindBVH,
	"vbvh":   KindVBVH,
	"svbvh":  KindSVBVH,
	"bih":    KindBIH,
	"libbvh": KindLibBVH,
}

// BuildConfig describes which structure to build and with what
// parameters, loaded from a yaml document.
type BuildConfig struct {
	Kind       TreeKind
	Capacity   int // hint for Builder.Reserve; 0 means no hint.
	Resolution int // octree resolution; ignored for every other Kind.
}

// buildConfig is the yaml-shaped intermediate, decoded then validated
// into a BuildConfig.
type buildConfig struct {
	Kind       string `yaml:"kind"`
	Capacity   int    `yaml:"capacity"`
	Resolution int    `yaml:"resolution"`
}

// Config decodes a yaml build configuration and returns it as a
// BuildConfig ready for CreateFromConfig.
func Config(data []byte) (cfg *BuildConfig, err error) {
	var raw buildConfig
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("Config: yaml %w", err)
	}

	kind, ok := treeKinds[raw.Kind]
	if !ok {
		return cfg, fmt.Errorf("Config: unsupported tree kind %s", raw.Kind)
	}
	if kind == KindOctree && !validOctreeResolution(raw.Resolution) {
		return cfg, fmt.Errorf("Config: %w: %d", ErrBadResolution, raw.Resolution)
	}

	cfg = &BuildConfig{Kind: kind, Capacity: raw.Capacity, Resolution: raw.Resolution}
	return cfg, nil
}

// CreateFromConfig builds an empty, ready-to-Add tree of the kind
// cfg.Kind describes, preallocating Builder storage from cfg.Capacity
// where the underlying tree supports it.
func CreateFromConfig(cfg *BuildConfig) (Handle, error) {
	switch cfg.Kind {
	case KindOctree:
		return CreateOctree(cfg.Resolution, cfg.Capacity)
	case KindBVH:
		return CreateBVH(cfg.Capacity), nil
	case KindVBVH:
		return CreateVBVH(cfg.Capacity), nil
	case KindSVBVH:
		return CreateSVBVH(cfg.Capacity), nil
	case KindBIH:
		return CreateBIH(cfg.Capacity), nil
	case KindLibBVH:
		return CreateLibBVH(cfg.Capacity), nil
	default:
		return Empty, fmt.Errorf("Config: unsupported tree kind %s", cfg.Kind)
	}
}
