// Package axi defines the data types carried on the channels of the AXI4 and
// AXI4-Lite protocols, as far as the translation cores in this module need
// them. Each channel beat is a plain value; the valid/ready handshake wires
// live on the engines that drive them.
package axi

import "fmt"

// Resp is the two-bit response code returned on the B and R channels.
type Resp uint8

// The AXI response codes.
const (
	RespOkay Resp = iota
	RespExOkay
	RespSlvErr
	RespDecErr
)

// IsError reports whether the code signals a slave or decode error.
func (r Resp) IsError() bool {
	return r == RespSlvErr || r == RespDecErr
}

func (r Resp) String() string {
	switch r {
	case RespOkay:
		return "OKAY"
	case RespExOkay:
		return "EXOKAY"
	case RespSlvErr:
		return "SLVERR"
	case RespDecErr:
		return "DECERR"
	default:
		return fmt.Sprintf("Resp(%d)", uint8(r))
	}
}

// AW is one write-address beat of a full AXI4 slave interface. Atop carries
// the atomic-operation encoding; zero means a plain write.
type AW struct {
	ID   uint64
	Len  uint8
	Atop uint8
}

// W is one write-data beat. Last marks the final beat of a burst.
type W struct {
	Data uint64
	Last bool
}

// B is one write-response beat.
type B struct {
	ID   uint64
	Resp Resp
}

// AR is one read-address beat. Len is 0-based: a burst has Len+1 beats.
type AR struct {
	ID  uint64
	Len uint8
}

// R is one read-data beat. Last marks the final beat of a burst.
type R struct {
	ID   uint64
	Data uint64
	Resp Resp
	Last bool
}

// LiteAW is one AXI4-Lite write-address beat.
type LiteAW struct {
	Addr uint64
	Prot uint8
}

// LiteW is one AXI4-Lite write-data beat. Strb holds one bit per data byte.
type LiteW struct {
	Data uint64
	Strb uint8
}

// LiteB is one AXI4-Lite write-response beat.
type LiteB struct {
	Resp Resp
}

// LiteAR is one AXI4-Lite read-address beat.
type LiteAR struct {
	Addr uint64
	Prot uint8
}

// LiteR is one AXI4-Lite read-data beat.
type LiteR struct {
	Data uint64
	Resp Resp
}
