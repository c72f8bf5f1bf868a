package validate

import (
	"errors"

	"github.com/hgir-dev/hgir/internal/extension"
	"github.com/hgir-dev/hgir/internal/graph"
	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

// checkExtensions resolves every custom operation against the registry and
// recomputes its signature, and re-derives the bound of every opaque type
// appearing on a port. Cached data that disagrees with the definitions is a
// violation, not something to silently trust.
func (c *checker) checkExtensions() {
	for _, n := range c.g.Nodes() {
		op, err := c.g.Op(n)
		if err != nil {
			continue
		}
		if custom, ok := op.(*ops.Custom); ok {
			c.checkCustomOp(n, custom)
		}
		c.checkPortTypes(n)
	}
}

func (c *checker) checkCustomOp(n graph.NodeID, custom *ops.Custom) {
	resolved, err := extension.InstantiateOp(c.reg, custom.Extension, custom.Op, custom.Args)
	if err != nil {
		var notFound *extension.NotFoundError
		var opNotFound *extension.OpNotFoundError
		switch {
		case errors.As(err, &notFound):
			c.report(ErrUnknownExtension, n, "extension %q is not registered", custom.Extension)
		case errors.As(err, &opNotFound):
			c.report(ErrUnknownOperation, n, "extension %q defines no operation %q", custom.Extension, custom.Op)
		default:
			c.report(ErrCustomSignature, n, "%v", err)
		}
		return
	}
	if !custom.Sig.Equal(resolved.Sig) {
		c.report(ErrCustomSignature, n, "%s cached signature %s, registry computes %s",
			custom.QualifiedName(), custom.Sig, resolved.Sig)
	}
}

func (c *checker) checkPortTypes(n graph.NodeID) {
	check := func(infos []ops.PortInfo) {
		for _, info := range infos {
			if info.Ty == nil {
				continue
			}
			c.checkOpaqueTypes(n, info.Ty)
		}
	}
	ins, _ := c.g.InPorts(n)
	outs, _ := c.g.OutPorts(n)
	check(ins)
	check(outs)
}

func (c *checker) checkOpaqueTypes(n graph.NodeID, t types.Type) {
	switch ty := t.(type) {
	case *types.Opaque:
		if err := extension.CheckOpaque(c.reg, ty); err != nil {
			var notFound *extension.NotFoundError
			var typeNotFound *extension.TypeNotFoundError
			switch {
			case errors.As(err, &notFound):
				c.report(ErrUnknownExtension, n, "type %s.%s: extension is not registered", ty.Extension, ty.Name)
			case errors.As(err, &typeNotFound):
				c.report(ErrUnknownExtension, n, "extension %q defines no type %q", ty.Extension, ty.Name)
			default:
				c.report(ErrOpaqueBound, n, "%v", err)
			}
		}
		for _, arg := range ty.Args {
			if ta, ok := arg.(types.ArgType); ok {
				c.checkOpaqueTypes(n, ta.Ty)
			}
		}
	case *types.Sum:
		for _, row := range ty.Variants {
			for _, elem := range row {
				c.checkOpaqueTypes(n, elem)
			}
		}
	}
}
