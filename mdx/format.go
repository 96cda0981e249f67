// Package mdx implements a decoder and encoder for the MDX binary model
// format.
//
// An MDX file is the magic "MDLX" followed by a sequence of chunks. Each chunk
// is a four-byte tag, a little-endian uint32 body size, and the body. Numbers
// within bodies are little-endian. Tags are stored as ASCII bytes, so that
// they read naturally in a hex dump.
package mdx

import (
	"encoding/binary"
	"unicode"
)

// Tag identifies a chunk, a record section or an animation track.
type Tag [4]byte

func newTag(s string) Tag {
	var t Tag
	copy(t[:], s)
	return t
}

// String returns the tag as four characters. Unprintable bytes are replaced
// with '.'.
func (t Tag) String() string {
	b := make([]byte, 4)
	for i, c := range t {
		if c < 0x80 && unicode.IsPrint(rune(c)) {
			b[i] = c
		} else {
			b[i] = '.'
		}
	}
	return string(b)
}

// Uint32 returns the tag read as a big-endian number.
func (t Tag) Uint32() uint32 {
	return binary.BigEndian.Uint32(t[:])
}

////////////////////////////////////////////////////////////////

var magic = newTag("MDLX")

// Top-level chunks.
var (
	tagVERS = newTag("VERS") // Version
	tagMODL = newTag("MODL") // Model header
	tagSEQS = newTag("SEQS") // Sequences
	tagGLBS = newTag("GLBS") // Global sequences
	tagTEXS = newTag("TEXS") // Textures
	tagPIVT = newTag("PIVT") // Pivot points
	tagMTLS = newTag("MTLS") // Materials
	tagTXAN = newTag("TXAN") // Texture animations
	tagGEOS = newTag("GEOS") // Geosets
	tagGEOA = newTag("GEOA") // Geoset animations
	tagCAMS = newTag("CAMS") // Cameras
	tagBONE = newTag("BONE") // Bones
	tagHELP = newTag("HELP") // Helpers
	tagCLID = newTag("CLID") // Collision shapes
	tagATCH = newTag("ATCH") // Attachments
	tagEVTS = newTag("EVTS") // Event objects
	tagLITE = newTag("LITE") // Lights
	tagPREM = newTag("PREM") // Particle emitters
	tagPRE2 = newTag("PRE2") // Particle emitters 2
	tagRIBB = newTag("RIBB") // Ribbon emitters
)

// Sections within records.
var (
	tagLAYS = newTag("LAYS")
	tagVRTX = newTag("VRTX")
	tagNRMS = newTag("NRMS")
	tagPTYP = newTag("PTYP")
	tagPCNT = newTag("PCNT")
	tagPVTX = newTag("PVTX")
	tagGNDX = newTag("GNDX")
	tagMTGC = newTag("MTGC")
	tagMATS = newTag("MATS")
	tagUVAS = newTag("UVAS")
	tagUVBS = newTag("UVBS")
	tagKEVT = newTag("KEVT")
)

// Animation tracks.
var (
	tagKMTA = newTag("KMTA") // Layer alpha
	tagKMTF = newTag("KMTF") // Layer texture id
	tagKTAT = newTag("KTAT") // Texture animation translation
	tagKTAR = newTag("KTAR")
	tagKTAS = newTag("KTAS")
	tagKGAO = newTag("KGAO") // Geoset animation alpha
	tagKGAC = newTag("KGAC")
	tagKCTR = newTag("KCTR") // Camera translation
	tagKCRL = newTag("KCRL")
	tagKTTR = newTag("KTTR")
	tagKGTR = newTag("KGTR") // Node translation
	tagKGRT = newTag("KGRT")
	tagKGSC = newTag("KGSC")
	tagKATV = newTag("KATV") // Attachment visibility
	tagKLAV = newTag("KLAV") // Light visibility
	tagKLAS = newTag("KLAS")
	tagKLAE = newTag("KLAE")
	tagKLAC = newTag("KLAC")
	tagKLAI = newTag("KLAI")
	tagKLBC = newTag("KLBC")
	tagKLBI = newTag("KLBI")
	tagKPEV = newTag("KPEV") // Particle emitter visibility
	tagKPEE = newTag("KPEE")
	tagKPEG = newTag("KPEG")
	tagKPLN = newTag("KPLN")
	tagKPLT = newTag("KPLT")
	tagKPEL = newTag("KPEL")
	tagKPES = newTag("KPES")
	tagKP2V = newTag("KP2V") // Particle emitter 2 visibility
	tagKP2E = newTag("KP2E")
	tagKP2W = newTag("KP2W")
	tagKP2N = newTag("KP2N")
	tagKP2S = newTag("KP2S")
	tagKP2L = newTag("KP2L")
	tagKP2R = newTag("KP2R")
	tagKP2G = newTag("KP2G")
	tagKRVS = newTag("KRVS") // Ribbon emitter visibility
	tagKRHA = newTag("KRHA")
	tagKRHB = newTag("KRHB")
	tagKRAL = newTag("KRAL")
	tagKRCO = newTag("KRCO")
	tagKRTX = newTag("KRTX")
)

// Fixed string widths.
const (
	nameSize      = 80
	modelNameSize = 336
	pathSize      = 256
)
