package ir

import (
	"github.com/hydroflow-go/hydro/expr"
	"github.com/hydroflow-go/hydro/location"
)

// RootKind discriminates the variants of Root (spec §3.4).
type RootKind int

const (
	RootForEach RootKind = iota
	RootDestSink
	RootCycleSink
	RootSendExternal
)

func (k RootKind) String() string {
	switch k {
	case RootForEach:
		return "ForEach"
	case RootDestSink:
		return "DestSink"
	case RootCycleSink:
		return "CycleSink"
	case RootSendExternal:
		return "SendExternal"
	default:
		return "?"
	}
}

// Root is a terminal IR node: a sink that does not produce further
// values (spec §3.4).
type Root interface {
	Kind() RootKind
	Metadata() *Metadata
	Input() Node
	SetInput(Node)
}

type rootBase struct {
	meta  Metadata
	input Node
}

func (r *rootBase) Metadata() *Metadata  { return &r.meta }
func (r *rootBase) Input() Node          { return r.input }
func (r *rootBase) SetInput(n Node)      { r.input = n }

// ForEachRoot is ForEach{f,input} (spec §3.4).
type ForEachRoot struct {
	rootBase
	F expr.Expr
}

func NewForEach(loc location.ID, input Node, f expr.Expr) *ForEachRoot {
	return &ForEachRoot{rootBase: rootBase{meta: Metadata{LocationKind: loc, Op: OpMetadata{OpName: "for_each"}}, input: input}, F: f}
}
func (r *ForEachRoot) Kind() RootKind { return RootForEach }

// DestSinkRoot is DestSink{sink,input} (spec §3.4).
type DestSinkRoot struct {
	rootBase
	Sink expr.Expr
}

func NewDestSink(loc location.ID, input Node, sink expr.Expr) *DestSinkRoot {
	return &DestSinkRoot{rootBase: rootBase{meta: Metadata{LocationKind: loc, Op: OpMetadata{OpName: "dest_sink"}}, input: input}, Sink: sink}
}
func (r *DestSinkRoot) Kind() RootKind { return RootDestSink }

// CycleSinkRoot is CycleSink{ident,input} (spec §3.4, §4.3).
type CycleSinkRoot struct {
	rootBase
	Ident string
}

func NewCycleSink(loc location.ID, ident string, input Node) *CycleSinkRoot {
	return &CycleSinkRoot{rootBase: rootBase{meta: Metadata{LocationKind: loc, Op: OpMetadata{OpName: "cycle_sink"}}, input: input}, Ident: ident}
}
func (r *CycleSinkRoot) Kind() RootKind { return RootCycleSink }

// SendExternalRoot is SendExternal{external_id,key,to_many,unpaired,
// serialize?,instantiate_fn,input} (spec §3.4, §4.7).
type SendExternalRoot struct {
	rootBase
	ExternalID uint64
	Key        string
	ToMany     bool
	Unpaired   bool
	Serialize  expr.Expr
	Inst       *Instantiation
}

func NewSendExternal(loc location.ID, input Node, externalID uint64, key string, toMany, unpaired bool, serialize expr.Expr) *SendExternalRoot {
	return &SendExternalRoot{
		rootBase:   rootBase{meta: Metadata{LocationKind: loc, Op: OpMetadata{OpName: "send_external"}}, input: input},
		ExternalID: externalID, Key: key, ToMany: toMany, Unpaired: unpaired, Serialize: serialize,
		Inst: NewInstantiation(),
	}
}
func (r *SendExternalRoot) Kind() RootKind { return RootSendExternal }
