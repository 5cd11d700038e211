package object

// NumGroups is the number of collision groups a CollisionGroups value can
// distinguish. Groups 0-27 are ordinary user groups; group 28 is
// AlwaysInteractGroup and group 29 is NeverInteractGroup - two reserved
// fast paths so a newly created object interacts with everything except
// what it explicitly blacklists, without any whitelist bookkeeping.
const NumGroups = 30

// AlwaysInteractGroup is the reserved group index that makes an object
// interact with every other object regardless of whitelist; blacklists and
// NeverInteractGroup still take precedence over it.
const AlwaysInteractGroup = 28

// NeverInteractGroup is the reserved group index that makes an object
// interact with nothing, regardless of whitelist/blacklist.
const NeverInteractGroup = 29

// CollisionGroups is the per-object collision-filtering descriptor: which
// groups the object belongs to (membership), and which groups it is
// willing (whitelist) or refuses (blacklist) to interact with.
type CollisionGroups struct {
	membership uint32
	whitelist  uint32
	blacklist  uint32
}

// NewCollisionGroups returns the default descriptor: member of
// AlwaysInteractGroup only, whitelists every group, blacklists none - i.e.
// interacts with everything.
func NewCollisionGroups() CollisionGroups {
	return CollisionGroups{
		membership: 1 << AlwaysInteractGroup,
		whitelist:  ^uint32(0),
		blacklist:  0,
	}
}

func bit(group int) uint32 {
	return 1 << uint(group)
}

// SetMembership sets the groups this object belongs to.
func (g *CollisionGroups) SetMembership(groups ...int) {
	g.membership = 0
	for _, i := range groups {
		g.membership |= bit(i)
	}
}

// SetWhitelist sets the groups this object is willing to interact with.
func (g *CollisionGroups) SetWhitelist(groups ...int) {
	g.whitelist = 0
	for _, i := range groups {
		g.whitelist |= bit(i)
	}
}

// SetBlacklist sets the groups this object refuses to interact with. The
// blacklist always wins over the whitelist.
func (g *CollisionGroups) SetBlacklist(groups ...int) {
	g.blacklist = 0
	for _, i := range groups {
		g.blacklist |= bit(i)
	}
}

// IsMemberOf reports whether this object belongs to the given group.
func (g CollisionGroups) IsMemberOf(group int) bool {
	return g.membership&bit(group) != 0
}

// CanInteractWithGroups reports whether an object carrying this descriptor
// can interact with an object carrying other, purely from group masks.
// The world's broad-phase interference check applies it before any
// registered pair filter; it is also usable directly against an ad-hoc
// mask (e.g. from interferences_with_*).
func (g CollisionGroups) CanInteractWithGroups(other CollisionGroups) bool {
	if g.membership&bit(NeverInteractGroup) != 0 || other.membership&bit(NeverInteractGroup) != 0 {
		return false
	}
	if g.blacklist&other.membership != 0 || other.blacklist&g.membership != 0 {
		return false
	}
	if g.membership&bit(AlwaysInteractGroup) != 0 || other.membership&bit(AlwaysInteractGroup) != 0 {
		return true
	}

	return g.whitelist&other.membership != 0 && other.whitelist&g.membership != 0
}
