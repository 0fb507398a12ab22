package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) deliver(id string) error {
	o, err := cli.orderSvc.MarkDelivered(context.Background(), id)
	if err != nil {
		return err
	}
	fmt.Printf("order %s (%s for %s) delivered at %s\n", o.ID, o.DishName, o.Student, o.DeliveredAt.Time.Format("2006-01-02 15:04:05"))
	return nil
}
