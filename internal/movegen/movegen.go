// Package movegen generates pseudo-legal moves from a board.Position in a
// fixed order: pawn moves (pawn by pawn: single push, or its four
// promotions, then double push, then captures/en-passant), castling, then
// knight/bishop/rook/queen/king moves. Pawn moves are not grouped by kind
// across pawns. Legality (king safety) is filtered
// by board.Position.DoMove, not here.
package movegen

import (
	. "github.com/elinde/goknight/internal/attacks"
	"github.com/elinde/goknight/internal/board"
	. "github.com/elinde/goknight/internal/bitboard"
)

// GenPseudoLegalMoves appends every pseudo-legal move for the side to move
// in p to ms, in the order described above.
func GenPseudoLegalMoves(p *board.Position, ms *MoveSlice) {
	us := p.SideToMove()
	them := us.Flip()
	occAll := p.OccupiedAll()
	occUs := p.OccupiedBy(us)
	occThem := p.OccupiedBy(them)

	genPawnMoves(p, us, them, occAll, occThem, ms)
	genCastling(p, us, ms)
	genPieceMoves(p, us, Knight, occUs, occAll, ms)
	genPieceMoves(p, us, Bishop, occUs, occAll, ms)
	genPieceMoves(p, us, Rook, occUs, occAll, ms)
	genPieceMoves(p, us, Queen, occUs, occAll, ms)
	genPieceMoves(p, us, King, occUs, occAll, ms)
}

var promoPieces = [4]PieceType{Queen, Rook, Bishop, Knight}

func genPawnMoves(p *board.Position, us, them Color, occAll, occThem Bitboard, ms *MoveSlice) {
	pawns := p.PiecesBb(us, Pawn)
	advance := pawnDirection(us)
	startRank := Rank2
	promoRank := Rank8
	if us == Black {
		startRank = Rank7
		promoRank = Rank1
	}

	pawnPiece := MakePiece(us, Pawn)

	for bb := pawns; bb != BbZero; {
		from := bb.PopLsb()
		to := from.To(advance)
		if !to.IsValid() {
			continue
		}

		// single push
		if !occAll.Has(to) {
			if to.RankOf() == promoRank {
				for _, promo := range promoPieces {
					ms.PushBack(NewMove(from, to, pawnPiece, promo, false, false, false, false))
				}
			} else {
				ms.PushBack(NewMove(from, to, pawnPiece, PtNone, false, false, false, false))
				// double push
				if from.RankOf() == startRank {
					to2 := to.To(advance)
					if to2.IsValid() && !occAll.Has(to2) {
						ms.PushBack(NewMove(from, to2, pawnPiece, PtNone, false, true, false, false))
					}
				}
			}
		}

		// captures
		for _, capDir := range pawnCaptureDirs(us) {
			capTo := from.To(capDir)
			if !capTo.IsValid() || fileDelta(from, capTo) != 1 {
				continue
			}
			if occThem.Has(capTo) {
				if capTo.RankOf() == promoRank {
					for _, promo := range promoPieces {
						ms.PushBack(NewMove(from, capTo, pawnPiece, promo, true, false, false, false))
					}
				} else {
					ms.PushBack(NewMove(from, capTo, pawnPiece, PtNone, true, false, false, false))
				}
			} else if capTo == p.EnPassantSquare() {
				ms.PushBack(NewMove(from, capTo, pawnPiece, PtNone, true, false, true, false))
			}
		}
	}
}

func fileDelta(a, b Square) int {
	d := int(b.FileOf()) - int(a.FileOf())
	if d < 0 {
		d = -d
	}
	return d
}

func pawnCaptureDirs(c Color) [2]Direction {
	if c == White {
		return [2]Direction{Northeast, Northwest}
	}
	return [2]Direction{Southeast, Southwest}
}

func genPieceMoves(p *board.Position, us Color, pt PieceType, occUs, occAll Bitboard, ms *MoveSlice) {
	piece := MakePiece(us, pt)
	for bb := p.PiecesBb(us, pt); bb != BbZero; {
		from := bb.PopLsb()
		attacks := GetAttacksBb(pt, from, occAll) &^ occUs
		for t := attacks; t != BbZero; {
			to := t.PopLsb()
			capture := occAll.Has(to)
			ms.PushBack(NewMove(from, to, piece, PtNone, capture, false, false, false))
		}
	}
}

func genCastling(p *board.Position, us Color, ms *MoveSlice) {
	rights := p.CastleRightsMask()
	occ := p.OccupiedAll()
	them := us.Flip()

	if us == White {
		if rights&WhiteKingside != 0 && !occ.Has(SqF1) && !occ.Has(SqG1) &&
			!p.IsAttacked(SqE1, them) && !p.IsAttacked(SqF1, them) && !p.IsAttacked(SqG1, them) {
			ms.PushBack(NewMove(SqE1, SqG1, WhiteKing, PtNone, false, false, false, true))
		}
		if rights&WhiteQueenside != 0 && !occ.Has(SqD1) && !occ.Has(SqC1) && !occ.Has(SqB1) &&
			!p.IsAttacked(SqE1, them) && !p.IsAttacked(SqD1, them) && !p.IsAttacked(SqC1, them) {
			ms.PushBack(NewMove(SqE1, SqC1, WhiteKing, PtNone, false, false, false, true))
		}
	} else {
		if rights&BlackKingside != 0 && !occ.Has(SqF8) && !occ.Has(SqG8) &&
			!p.IsAttacked(SqE8, them) && !p.IsAttacked(SqF8, them) && !p.IsAttacked(SqG8, them) {
			ms.PushBack(NewMove(SqE8, SqG8, BlackKing, PtNone, false, false, false, true))
		}
		if rights&BlackQueenside != 0 && !occ.Has(SqD8) && !occ.Has(SqC8) && !occ.Has(SqB8) &&
			!p.IsAttacked(SqE8, them) && !p.IsAttacked(SqD8, them) && !p.IsAttacked(SqC8, them) {
			ms.PushBack(NewMove(SqE8, SqC8, BlackKing, PtNone, false, false, false, true))
		}
	}
}

// pawnDirection returns the forward pawn-push direction for color c.
func pawnDirection(c Color) Direction {
	if c == White {
		return North
	}
	return South
}

// GenLegalMoves generates all pseudo-legal moves and filters out illegal
// ones by trial-applying each through DoMove/UndoMove.
func GenLegalMoves(p *board.Position, ms *MoveSlice) {
	var pseudo MoveSlice
	GenPseudoLegalMoves(p, &pseudo)
	for _, m := range pseudo {
		if p.DoMove(m, board.AllMoves) {
			p.UndoMove(m)
			ms.PushBack(m)
		}
	}
}

// HasLegalMove reports whether the side to move has at least one legal
// move, without generating the full list.
func HasLegalMove(p *board.Position) bool {
	var pseudo MoveSlice
	GenPseudoLegalMoves(p, &pseudo)
	for _, m := range pseudo {
		if p.DoMove(m, board.AllMoves) {
			p.UndoMove(m)
			return true
		}
	}
	return false
}
