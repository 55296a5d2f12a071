// Package annotation extracts structured records from LuaLS-style
// doc-comment annotations.
//
// Source files are read line by line. Lines starting with "---" are
// collected into a block; the declaration line that ends a block decides
// what the block describes:
//
//	---Returns whether the player knows the spell.
//	---[Documentation](https://warcraft.wiki.gg/wiki/API_IsSpellKnown)
//	---@param spellID number
//	---@param isPet? boolean
//	---@return boolean isKnown
//	function IsSpellKnown(spellID, isPet) end
//
// Each block line is classified by an ordered table of rules (deprecation
// marker, "Deprecated by" link, documentation link, @param, @return); the
// first match wins. Other annotation or heading lines are ignored and any
// remaining text becomes the description.
//
// # Side tables
//
// Enums, events, string lists and the flavor bitmask table have their own
// extractors ([ExtractEnums], [ExtractEvents], [ExtractStringList],
// [ExtractFlavorMasks]).
//
// # Tolerance
//
// The corpus is third-party and evolving. Lines or blocks that match no
// rule are skipped; they never fail a file.
package annotation
