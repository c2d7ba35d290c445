package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/annel0/blockedit/internal/world/block"
)

// parseBlock разбирает запись "тип[:данные]"
func parseBlock(s string) (block.Identity, error) {
	typePart, dataPart, hasData := strings.Cut(strings.TrimSpace(s), ":")

	t, err := parseType(typePart)
	if err != nil {
		return block.Identity{}, err
	}
	if !hasData {
		return block.NewIdentity(t), nil
	}

	data, err := strconv.ParseInt(dataPart, 0, 32)
	if err != nil {
		return block.Identity{}, fmt.Errorf("некорректные данные %q: %w", dataPart, err)
	}
	return block.NewIdentityData(t, int32(data)), nil
}

// parsePattern разбирает запись "тип:*", "тип:данные/маска" или обычный блок
func parsePattern(s string) (block.Identity, error) {
	typePart, dataPart, hasData := strings.Cut(strings.TrimSpace(s), ":")
	if !hasData {
		return parseBlock(s)
	}

	t, err := parseType(typePart)
	if err != nil {
		return block.Identity{}, err
	}
	if dataPart == "*" {
		return block.NewIdentityData(t, block.AnyData), nil
	}

	valuePart, maskPart, hasMask := strings.Cut(dataPart, "/")
	if !hasMask {
		return parseBlock(s)
	}

	value, err := strconv.ParseInt(valuePart, 0, 32)
	if err != nil {
		return block.Identity{}, fmt.Errorf("некорректные данные %q: %w", valuePart, err)
	}
	mask, err := strconv.ParseInt(maskPart, 0, 32)
	if err != nil {
		return block.Identity{}, fmt.Errorf("некорректная маска %q: %w", maskPart, err)
	}
	return block.Wildcard(t, int(value), int(mask)), nil
}

func parseType(s string) (block.BlockID, error) {
	t, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("некорректный тип блока %q: %w", s, err)
	}
	return block.BlockID(t), nil
}

// parseCount разбирает необязательный числовой аргумент
func parseCount(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("некорректное число %q: %w", args[i], err)
	}
	return n, nil
}
