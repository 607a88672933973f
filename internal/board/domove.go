package board

import (
	. "github.com/elinde/goknight/internal/bitboard"
	"github.com/elinde/goknight/internal/zobrist"
)

// MoveFilter selects which pseudo-legal moves DoMove will actually apply.
type MoveFilter int

const (
	// AllMoves applies any pseudo-legal move.
	AllMoves MoveFilter = iota
	// CapturesOnly rejects (no-op, returns false) any move that is not a
	// capture or capturing promotion; used by quiescence search.
	CapturesOnly
)

// DoMove applies m to the position if it is pseudo-legal under filter and
// leaves the moving side's king safe. On false, the position is
// byte-identical to before the call: no partial mutation survives a
// rejected move. On true, the caller owns the obligation to call
// UndoMove before trying the next sibling move.
func (p *Position) DoMove(m Move, filter MoveFilter) bool {
	if filter == CapturesOnly && !m.IsCapture() && !m.IsEnPassant() {
		return false
	}

	p.pushUndo(m)

	from := m.From()
	to := m.To()
	moving := m.MovingPiece()
	us := p.sideToMove
	them := us.Flip()

	p.zobristKey ^= zobrist.PieceKey[moving][from]

	if m.IsEnPassant() {
		capSq := to.To(pawnAdvanceDirection(us.Flip()))
		capturedPawn := MakePiece(them, Pawn)
		p.zobristKey ^= zobrist.PieceKey[capturedPawn][capSq]
		p.removePiece(capturedPawn, capSq)
	} else if m.IsCapture() {
		captured := p.board[to]
		p.zobristKey ^= zobrist.PieceKey[captured][to]
		p.removePiece(captured, to)
	}

	p.removePiece(moving, from)

	placed := moving
	if promo := m.Promotion(); promo != PtNone {
		placed = MakePiece(us, promo)
	}
	p.putPiece(placed, to)
	p.zobristKey ^= zobrist.PieceKey[placed][to]

	if m.IsCastle() {
		rookFrom, rookTo := castleRookSquares(to)
		rook := MakePiece(us, Rook)
		p.zobristKey ^= zobrist.PieceKey[rook][rookFrom]
		p.removePiece(rook, rookFrom)
		p.putPiece(rook, rookTo)
		p.zobristKey ^= zobrist.PieceKey[rook][rookTo]
	}

	if moving.TypeOf() == King {
		p.kingSquare[us] = to
	}

	p.zobristKey ^= zobrist.CastleKey[p.castleRights]
	p.castleRights &= castlingRightsMask[from] & castlingRightsMask[to]
	p.zobristKey ^= zobrist.CastleKey[p.castleRights]

	if p.enPassant != SqNone {
		p.zobristKey ^= zobrist.EnPassantKey[p.enPassant]
	}
	if m.IsDoublePush() {
		p.enPassant = to.To(pawnAdvanceDirection(them))
		p.zobristKey ^= zobrist.EnPassantKey[p.enPassant]
	} else {
		p.enPassant = SqNone
	}

	if m.IsCapture() || moving.TypeOf() == Pawn {
		p.halfMoveClock = 0
	} else {
		p.halfMoveClock++
	}

	p.zobristKey ^= zobrist.SideKey
	p.sideToMove = them
	if them == White {
		p.fullMoveNumber++
	}
	p.repetition = append(p.repetition, p.zobristKey)

	if p.IsAttacked(p.kingSquare[us], them) {
		p.UndoMove(m)
		return false
	}
	return true
}

// UndoMove reverses the most recent successful DoMove by restoring the
// snapshot taken at the matching pushUndo call.
func (p *Position) UndoMove(m Move) {
	u := p.popUndo()
	p.pieces = u.pieces
	p.occupied = u.occupied
	p.castleRights = u.castleRights
	p.enPassant = u.enPassant
	p.halfMoveClock = u.halfMoveClock
	p.zobristKey = u.zobristKey
	p.sideToMove = p.sideToMove.Flip()
	if p.sideToMove == Black {
		p.fullMoveNumber--
	}

	for sq := Square(0); sq < SqLength; sq++ {
		p.board[sq] = PieceNone
	}
	for pc := Piece(0); pc < PieceLength; pc++ {
		bb := p.pieces[pc]
		for bb != BbZero {
			sq := bb.PopLsb()
			p.board[sq] = pc
		}
	}
	p.kingSquare[White] = p.pieces[WhiteKing].Lsb()
	p.kingSquare[Black] = p.pieces[BlackKing].Lsb()

	p.repetition = p.repetition[:len(p.repetition)-1]
}

func (p *Position) pushUndo(m Move) {
	u := &p.undo[p.undoTop]
	u.zobristKey = p.zobristKey
	u.pieces = p.pieces
	u.occupied = p.occupied
	u.castleRights = p.castleRights
	u.enPassant = p.enPassant
	u.halfMoveClock = p.halfMoveClock
	p.undoTop++
}

func (p *Position) popUndo() undoState {
	p.undoTop--
	return p.undo[p.undoTop]
}

func castleRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case SqG1:
		return SqH1, SqF1
	case SqC1:
		return SqA1, SqD1
	case SqG8:
		return SqH8, SqF8
	case SqC8:
		return SqA8, SqD8
	}
	return SqNone, SqNone
}

func pawnAdvanceDirection(c Color) Direction {
	if c == White {
		return North
	}
	return South
}

// DoNullMove applies a null move: flips side to move, clears en-passant,
// and toggles the side Zobrist key, without moving any piece. Used by
// null-move pruning.
func (p *Position) DoNullMove() {
	u := &p.undo[p.undoTop]
	u.zobristKey = p.zobristKey
	u.enPassant = p.enPassant
	p.undoTop++

	if p.enPassant != SqNone {
		p.zobristKey ^= zobrist.EnPassantKey[p.enPassant]
		p.enPassant = SqNone
	}
	p.zobristKey ^= zobrist.SideKey
	p.sideToMove = p.sideToMove.Flip()
	p.repetition = append(p.repetition, p.zobristKey)
}

// UndoNullMove reverses DoNullMove.
func (p *Position) UndoNullMove() {
	p.undoTop--
	u := p.undo[p.undoTop]
	p.zobristKey = u.zobristKey
	p.enPassant = u.enPassant
	p.sideToMove = p.sideToMove.Flip()
	p.repetition = p.repetition[:len(p.repetition)-1]
}
