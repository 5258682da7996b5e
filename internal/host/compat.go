package host

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	inkerrors "github.com/conneroisu/templar-inkwell/internal/errors"
)

// Satisfies reports whether version meets constraint. A constraint is a
// comma or space separated list of comparisons such as ">=0.2.0 <1.0.0";
// every comparison must hold. An empty constraint accepts any version.
func Satisfies(version, constraint string) (bool, error) {
	v := canonical(version)
	if !semver.IsValid(v) {
		return false, fmt.Errorf("invalid version %q", version)
	}

	fields := strings.FieldsFunc(constraint, func(r rune) bool {
		return r == ',' || r == ' '
	})
	for _, field := range fields {
		op, want := splitOperator(field)
		w := canonical(want)
		if !semver.IsValid(w) {
			return false, fmt.Errorf("invalid version %q in constraint %q", want, constraint)
		}

		cmp := semver.Compare(v, w)
		var ok bool
		switch op {
		case ">=":
			ok = cmp >= 0
		case ">":
			ok = cmp > 0
		case "<=":
			ok = cmp <= 0
		case "<":
			ok = cmp < 0
		case "=", "":
			ok = cmp == 0
		case "^":
			ok = cmp >= 0 && semver.Major(v) == semver.Major(w)
		default:
			return false, fmt.Errorf("invalid operator %q in constraint %q", op, constraint)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func splitOperator(field string) (op, version string) {
	for _, candidate := range []string{">=", "<=", ">", "<", "=", "^"} {
		if strings.HasPrefix(field, candidate) {
			return candidate, strings.TrimSpace(field[len(candidate):])
		}
	}
	return "", field
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// CheckCompatibility fails when the host version does not meet constraint.
func (h *Host) CheckCompatibility(module, constraint string) error {
	ok, err := Satisfies(h.version, constraint)
	if err != nil {
		return inkerrors.WrapConfig(err, inkerrors.ErrCodeIncompatibleHost,
			"cannot check host compatibility").WithComponent(module)
	}
	if !ok {
		return inkerrors.NewConfigError(inkerrors.ErrCodeIncompatibleHost,
			fmt.Sprintf("%s requires host %s, running %s", module, constraint, h.version)).
			WithComponent(module)
	}
	return nil
}

// InstallModule checks that the host meets constraint and runs setup.
func (h *Host) InstallModule(ctx context.Context, module, constraint string, setup func(context.Context) error) error {
	if err := h.CheckCompatibility(module, constraint); err != nil {
		return err
	}

	h.logger.Info(ctx, "Installing module", "module", module, "dev", h.dev)
	if err := setup(ctx); err != nil {
		return err
	}
	h.logger.Info(ctx, "Module installed", "module", module)
	return nil
}
