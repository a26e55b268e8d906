// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/staranto/orthoview/internal/orthocase"
	"github.com/staranto/orthoview/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func NonNegativeValidator(value any) error {
	if value.(int) < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func PositiveValidator(value any) error {
	if value.(int) < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, value.(string)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func VariantValidator(value any) error {
	if _, err := orthocase.ParseMeshVariant(value.(string)); err != nil {
		var names []string
		for _, v := range orthocase.MeshVariants() {
			names = append(names, v.String())
		}
		return fmt.Errorf("must be one of %v", names)
	}
	return nil
}
