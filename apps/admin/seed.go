package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/cafeteria/core/dish"
)

func readMenuFile(path string) (dish.Menu, error) {
	var menu dish.Menu
	data, err := os.ReadFile(path)
	if err != nil {
		return menu, errors.Wrap(err, "reading menu file")
	}
	if err = yaml.Unmarshal(data, &menu); err != nil {
		return menu, errors.Wrap(err, "parsing menu file")
	}
	return menu, nil
}

func (cli *commandLine) seedFile(path string) (int, error) {
	menu, err := readMenuFile(path)
	if err != nil {
		return 0, err
	}
	return cli.dishSvc.Seed(context.Background(), menu.Dishes)
}

func (cli *commandLine) seedRemote(count int) (int, error) {
	return cli.dishSvc.Generate(context.Background(), count)
}
