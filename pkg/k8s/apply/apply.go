/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package apply creates cluster resources from multi-document YAML manifest
// bundles, the in-process equivalent of kubectl apply -f URL.
package apply

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/dynamic"
)

// fieldManager identifies this tool in managedFields.
const fieldManager = "stackup"

// Applier submits manifest documents through the dynamic client.
type Applier struct {
	dyn    dynamic.Interface
	mapper meta.RESTMapper
}

// New creates an Applier.
func New(dyn dynamic.Interface, mapper meta.RESTMapper) *Applier {
	return &Applier{dyn: dyn, mapper: mapper}
}

// Bundle applies every document in a multi-document YAML stream. Namespaced
// resources without an explicit namespace land in defaultNamespace.
// Existing resources are updated in place. Returns the number of documents
// applied.
func (a *Applier) Bundle(ctx context.Context, manifest []byte, defaultNamespace string) (int, error) {
	decoder := utilyaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifest), 4096)

	applied := 0
	for {
		var raw map[string]any
		if err := decoder.Decode(&raw); err != nil {
			if err == io.EOF {
				break
			}
			return applied, fmt.Errorf("failed to decode manifest document %d: %w", applied, err)
		}
		if len(raw) == 0 {
			continue
		}

		obj := &unstructured.Unstructured{Object: raw}
		if err := a.applyObject(ctx, obj, defaultNamespace); err != nil {
			return applied, err
		}
		applied++
	}

	slog.Debug("manifest bundle applied", "documents", applied, "namespace", defaultNamespace)
	return applied, nil
}

func (a *Applier) applyObject(ctx context.Context, obj *unstructured.Unstructured, defaultNamespace string) error {
	gvk := obj.GroupVersionKind()

	mapping, err := a.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return fmt.Errorf("no resource mapping for %s: %w", gvk, err)
	}

	var ri dynamic.ResourceInterface = a.dyn.Resource(mapping.Resource)
	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		ns := obj.GetNamespace()
		if ns == "" {
			ns = defaultNamespace
			obj.SetNamespace(ns)
		}
		ri = a.dyn.Resource(mapping.Resource).Namespace(ns)
	}

	_, err = ri.Create(ctx, obj, metav1.CreateOptions{FieldManager: fieldManager})
	if err == nil {
		slog.Debug("created", "kind", gvk.Kind, "name", obj.GetName(), "namespace", obj.GetNamespace())
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create %s %s: %w", gvk.Kind, obj.GetName(), err)
	}

	existing, err := ri.Get(ctx, obj.GetName(), metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("failed to get existing %s %s: %w", gvk.Kind, obj.GetName(), err)
	}

	obj.SetResourceVersion(existing.GetResourceVersion())
	if _, err := ri.Update(ctx, obj, metav1.UpdateOptions{FieldManager: fieldManager}); err != nil {
		return fmt.Errorf("failed to update %s %s: %w", gvk.Kind, obj.GetName(), err)
	}

	slog.Debug("updated", "kind", gvk.Kind, "name", obj.GetName(), "namespace", obj.GetNamespace())
	return nil
}
