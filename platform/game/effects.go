package game

import (
	"fmt"

	"github.com/multipoly/multipoly-backend/app/models"
	"github.com/multipoly/multipoly-backend/platform/board"
)

const (
	StartBonus  = 50
	BurnPenalty = 25
	MintCost    = 10

	// FreeMintPropertyId is the reserved special property granted by the
	// FREE MINT corner. It is not tied to any board cell.
	FreeMintPropertyId = "FREE MINT PASS"
)

// ApplyEffect commits a resolved roll to the player's own state: advances the
// position, bumps the turn counter and applies the landed cell's effect. It
// returns the event to broadcast and the notice the UI renders. Property
// cells do not mutate anything here; the notice carries a pending-mint
// decision and ConfirmMint finishes the purchase if the player goes through.
//
// Only the player's own engine may call this on its canonical state; replicas
// are fed through the roster instead.
func ApplyEffect(p *models.PlayerState, res Resolution) (models.RollEvent, models.EffectNotice) {
	p.Position = res.NewPosition
	p.TurnNumber++

	notice := models.EffectNotice{
		Kind: res.Cell.Kind,
		Cell: res.Cell.Name,
	}

	switch res.Cell.Kind {
	case models.KindStart:
		p.Balances[models.PrimaryCurrency] += StartBonus
		notice.Amount = StartBonus
		notice.Info = fmt.Sprintf("Landed on START, %d %s credited", StartBonus, models.PrimaryCurrency)
	case models.KindBurn:
		debited := BurnPenalty
		if bal := p.Balances[models.PrimaryCurrency]; bal < debited {
			debited = bal // balances never go negative
		}
		p.Balances[models.PrimaryCurrency] -= debited
		notice.Amount = -debited
		notice.Info = fmt.Sprintf("Landed on BURN, %d %s burned", debited, models.PrimaryCurrency)
	case models.KindFreeMint:
		if !p.Owns(FreeMintPropertyId) {
			p.OwnedProperties = append(p.OwnedProperties, FreeMintPropertyId)
		}
		notice.PropertyId = FreeMintPropertyId
		notice.Info = "Landed on FREE MINT, special property granted"
	case models.KindChance, models.KindDAO:
		// Reserved for future random events; placeholder notice only.
		notice.Info = fmt.Sprintf("Landed on %s, nothing happens yet", res.Cell.Name)
	case models.KindProperty:
		notice.PropertyId = res.Cell.PropertyId()
		notice.PendingMint = !p.Owns(res.Cell.PropertyId())
		if notice.PendingMint {
			notice.Info = fmt.Sprintf("Landed on %s, mint for %d %s?", res.Cell.Name, MintCost, models.PrimaryCurrency)
		} else {
			notice.Info = fmt.Sprintf("Landed on %s, already yours", res.Cell.Name)
		}
	}

	evt := models.RollEvent{
		Player:      p.PlayerId,
		Roll:        res.Roll,
		NewPosition: res.NewPosition,
		TurnNumber:  p.TurnNumber,
	}
	return evt, notice
}

// ConfirmMint settles a pending property mint: debits the mint cost and
// records ownership. Refusal leaves the player untouched; the turn and
// position advance from the roll stand either way.
func ConfirmMint(p *models.PlayerState, propertyId string) error {
	cell, err := board.GetById(propertyId)
	if err != nil {
		return err
	}
	if p.Owns(cell.PropertyId()) {
		return ErrAlreadyMinted
	}
	if p.Balances[models.PrimaryCurrency] < MintCost {
		return ErrInsufficientFunds
	}
	p.Balances[models.PrimaryCurrency] -= MintCost
	p.OwnedProperties = append(p.OwnedProperties, cell.PropertyId())
	return nil
}

// Swap moves amount between two of the player's own currencies at par. The
// four game tokens are equal in value, so this is a straight transfer.
// Degenerate swaps fail loudly: a nil return guarantees both balances moved,
// which is what lets callers mirror the transfer elsewhere.
func Swap(p *models.PlayerState, from, to string, amount int) error {
	fromBal, ok := p.Balances[from]
	if !ok {
		return ErrUnknownCurrency
	}
	if _, ok := p.Balances[to]; !ok {
		return ErrUnknownCurrency
	}
	if from == to || amount <= 0 {
		return ErrInvalidSwap
	}
	if fromBal < amount {
		return ErrInsufficientFunds
	}
	p.Balances[from] -= amount
	p.Balances[to] += amount
	return nil
}
